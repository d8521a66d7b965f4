package storage

import "github.com/julianstephens/thrift/internal/models"

// Notifying wraps a Provider and publishes a Change after every mutation
// that succeeds. Failed mutations publish nothing.
type Notifying struct {
	Provider
	broker *Broker
}

func NewNotifying(p Provider, broker *Broker) *Notifying {
	return &Notifying{Provider: p, broker: broker}
}

// Broker returns the broker changes are published on.
func (n *Notifying) Broker() *Broker {
	return n.broker
}

func (n *Notifying) publish(err error, kind ChangeKind, op Op, id string) error {
	if err == nil {
		n.broker.Publish(Change{Kind: kind, Op: op, ID: id})
	}
	return err
}

func (n *Notifying) SaveSettings(s models.Settings) error {
	return n.publish(n.Provider.SaveSettings(s), ChangeSettings, OpUpdate, "")
}

func (n *Notifying) AddEntry(e models.Entry) error {
	return n.publish(n.Provider.AddEntry(e), ChangeEntries, OpAdd, e.ID)
}

func (n *Notifying) UpdateEntry(e models.Entry) error {
	return n.publish(n.Provider.UpdateEntry(e), ChangeEntries, OpUpdate, e.ID)
}

func (n *Notifying) DeleteEntry(id string) error {
	return n.publish(n.Provider.DeleteEntry(id), ChangeEntries, OpDelete, id)
}

func (n *Notifying) AddGoal(g models.Goal) error {
	return n.publish(n.Provider.AddGoal(g), ChangeGoals, OpAdd, g.ID)
}

func (n *Notifying) UpdateGoal(g models.Goal) error {
	return n.publish(n.Provider.UpdateGoal(g), ChangeGoals, OpUpdate, g.ID)
}

func (n *Notifying) DeleteGoal(id string) error {
	return n.publish(n.Provider.DeleteGoal(id), ChangeGoals, OpDelete, id)
}

func (n *Notifying) AddCategory(c models.Category) error {
	return n.publish(n.Provider.AddCategory(c), ChangeCategories, OpAdd, c.ID)
}

func (n *Notifying) DeleteCategory(id string) error {
	return n.publish(n.Provider.DeleteCategory(id), ChangeCategories, OpDelete, id)
}
