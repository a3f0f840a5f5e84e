package entity

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

var Genders = []Gender{Male, Female, Other}

type User struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string        `bson:"name,omitempty" json:"name"`
	Email           string        `bson:"email,omitempty" json:"email"`
	Phone           string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Age             *int          `bson:"age,omitempty" json:"age"`
	Gender          *Gender       `bson:"gender,omitempty" json:"gender"`
	Sex             *Gender       `bson:"sex,omitempty" json:"-"`
	InstagramHandle *string       `bson:"instagramHandle,omitempty" json:"instagramHandle"`
}

// GetGender prefers the gender field and falls back to the legacy sex field.
func (u *User) GetGender() *Gender {
	if u.Gender != nil {
		return u.Gender
	}
	return u.Sex
}
