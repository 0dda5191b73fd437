package model

// OwnerID her sahipli entity'nin sahibini tek imza altında verir; ownership
// guard bu metodu kullanır.

func (l *Listing) OwnerID() uint       { return l.UserID }
func (s *SavedProperty) OwnerID() uint { return s.UserID }
func (v *Viewing) OwnerID() uint       { return v.UserID }
func (c *Comparison) OwnerID() uint    { return c.UserID }
func (t *Tag) OwnerID() uint           { return t.UserID }
