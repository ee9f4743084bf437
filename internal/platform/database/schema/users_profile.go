// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersProfileTable represents the 'users.profile' table
type UsersProfileTable struct {
	Table     string
	ID        string
	Email     string
	FullName  string
	AvatarURL string
	Role      string

	// Unique indexes
	UniqueEmail string
}

// UsersProfile is the schema definition for the public columns of users.profile
var UsersProfile = UsersProfileTable{
	Table:       "users.profile",
	ID:          "id",
	Email:       "email",
	FullName:    "fullname",
	AvatarURL:   "avatarurl",
	Role:        "role",
	UniqueEmail: "uq_profile_email",
}
