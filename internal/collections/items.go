package collections

// AddItem appends a resource id to the collection's items if it is not
// already a member. Duplicates and unknown collection ids are silent no-ops:
// the UI may race a delete against an add and neither should surface as an
// error.
func (s *Store) AddItem(id string, resourceID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil || c.Contains(resourceID) {
		return
	}
	c.Items = append(c.Items, resourceID)
	c.UpdatedAt = s.nowMs()
	s.persistLocked()
	s.emit("add_item", c.Name, resourceID)
}

// AddItems appends every resource id not already present, touching
// UpdatedAt once for the whole batch.
func (s *Store) AddItems(id string, resourceIDs []int) {
	if len(resourceIDs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return
	}

	added := 0
	for _, rid := range resourceIDs {
		if c.Contains(rid) {
			continue
		}
		c.Items = append(c.Items, rid)
		added++
	}
	if added == 0 {
		return
	}

	c.UpdatedAt = s.nowMs()
	s.persistLocked()
	s.emit("add_multiple_items", c.Name, added)
}

// RemoveItem filters a resource id out of the collection's items.
// Removing an absent id still touches UpdatedAt.
func (s *Store) RemoveItem(id string, resourceID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return
	}

	next := c.Items[:0]
	for _, rid := range c.Items {
		if rid != resourceID {
			next = append(next, rid)
		}
	}
	c.Items = next
	c.UpdatedAt = s.nowMs()
	s.persistLocked()
	s.emit("remove_item", c.Name, resourceID)
}

// Contains reports whether the resource id is a member of the collection.
// Unknown collection ids report false.
func (s *Store) Contains(id string, resourceID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.findLocked(id)
	return c != nil && c.Contains(resourceID)
}
