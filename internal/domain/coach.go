package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// Coach represents a coaching account. A coach owns clients, defines the
// free-text plan labels assignable to them, and carries the subscription
// state that gates how many clients they may have.
type Coach struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// Plan labels the coach defined (e.g. "Basic", "Premium"). Clients are
	// assigned one of these by name; distinct from the coach's own
	// subscription tier below.
	Plans []string `bson:"plans,omitempty" json:"plans,omitempty"`

	// Denormalized counter of Client records referencing this coach.
	// Kept in step with client creation/deletion; drift is a bug.
	ClientCount int `bson:"clientCount" json:"clientCount"`

	// --- Subscription tier, driven by the billing provider ---
	IsSubscribed          bool   `bson:"isSubscribed" json:"isSubscribed"`
	BillingCustomerID     string `bson:"billingCustomerId,omitempty" json:"-"`
	BillingSubscriptionID string `bson:"billingSubscriptionId,omitempty" json:"-"`
	SubscriptionPlan      string `bson:"subscriptionPlan,omitempty" json:"subscriptionPlan,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasPlan reports whether name is one of the coach's plan labels.
func (c *Coach) HasPlan(name string) bool {
	for _, p := range c.Plans {
		if p == name {
			return true
		}
	}
	return false
}
