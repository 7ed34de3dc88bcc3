package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/logboard/internal/common"
)

// User is one of the two board members.
type User string

const (
	UserAldo User = "Aldo"
	UserMoni User = "Moni"
)

// Users is the fixed allowlist, in display order. The first user is the
// session default.
var Users = []User{UserAldo, UserMoni}

var userColors = map[User]string{
	UserAldo: "#23c053",
	UserMoni: "#e754c5",
}

// Color returns the display color of u, or black for unknown users.
func (u User) Color() string {
	if c, ok := userColors[u]; ok {
		return c
	}
	return "#000000"
}

// Valid reports whether u is on the allowlist.
func (u User) Valid() bool {
	for _, x := range Users {
		if x == u {
			return true
		}
	}
	return false
}

// ParseUser matches s against the allowlist case-insensitively.
func ParseUser(s string) (User, error) {
	for _, u := range Users {
		if strings.EqualFold(string(u), strings.TrimSpace(s)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownUser, s)
}

// Category classifies an entry.
type Category string

const (
	CategoryFeedback Category = "Feedback"
	CategoryPending  Category = "Pending"
	CategoryQuestion Category = "Question"
	CategoryRequest  Category = "Request"
	CategoryOther    Category = "Other"
	CategoryUpdate   Category = "Update"
)

// Categories lists every category in picker order.
var Categories = []Category{
	CategoryFeedback,
	CategoryPending,
	CategoryQuestion,
	CategoryRequest,
	CategoryOther,
	CategoryUpdate,
}

type categoryStyle struct {
	icon  string
	color string
}

var categoryStyles = map[Category]categoryStyle{
	CategoryFeedback: {"💬", "#43A047"},
	CategoryPending:  {"⏳", "#FF9800"},
	CategoryQuestion: {"❓", "#2979FF"},
	CategoryRequest:  {"📥", "#8E24AA"},
	CategoryOther:    {"🔹", "#546E7A"},
	CategoryUpdate:   {"🔄", "#009688"},
}

// Icon returns the badge icon for c.
func (c Category) Icon() string {
	return categoryStyles[c].icon
}

// Color returns the badge background color for c.
func (c Category) Color() string {
	if s, ok := categoryStyles[c]; ok {
		return s.color
	}
	return "#888888"
}

// Label is the icon-prefixed picker label, e.g. "💬 Feedback".
func (c Category) Label() string {
	return c.Icon() + " " + string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// ParseCategory matches s against the category set case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownCategory, s)
}
