package packages

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity names the account that posted or edited a package.
type Identity struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Photo string `bson:"photo" json:"photo"`
}

// Itinerary is the fixed 3-slot day plan of a package.
type Itinerary struct {
	Day1 string `bson:"day1" json:"day1"`
	Day2 string `bson:"day2" json:"day2"`
	Day3 string `bson:"day3" json:"day3"`
}

type Package struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Type        string             `bson:"type" json:"type"`
	Duration    string             `bson:"duration" json:"duration"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Cost        float64            `bson:"cost" json:"cost"`
	Day         Itinerary          `bson:"day" json:"day"`
	PostedBy    Identity           `bson:"posted_by" json:"posted_by"`
	EditedBy    *Identity          `bson:"edited_by,omitempty" json:"edited_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// Update is the fixed field subset a package edit replaces. Fields
// outside this set are left untouched by the store update.
type Update struct {
	Title       string
	Type        string
	Duration    string
	Description string
	Image       string
	Cost        float64
	Day         Itinerary
	PostedBy    Identity
	EditedBy    Identity
}
