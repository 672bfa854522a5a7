package portalclient

import (
	"strconv"
	"time"
)

// Account mirrors the portal's account document.
type Account struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Photo             string    `json:"photo,omitempty"`
	Mobile            string    `json:"mobile,omitempty"`
	Address           string    `json:"address,omitempty"`
	WardNumber        int       `json:"wardNumber,omitempty"`
	AadharPhoto       string    `json:"aadharPhoto,omitempty"`
	Role              string    `json:"role"`
	IsVerified        bool      `json:"isVerified"`
	IsProfileComplete bool      `json:"isProfileComplete"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (a Account) IsAdmin() bool {
	return a.Role == "admin"
}

type Complaint struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Category         string     `json:"category"`
	OtherDescription string     `json:"otherDescription,omitempty"`
	ImageURL         string     `json:"imageUrl"`
	ImageURLs        []string   `json:"imageUrls"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Address          string     `json:"address"`
	WardNumber       int        `json:"wardNumber"`
	Status           string     `json:"status"`
	SolutionImageURL string     `json:"solutionImageUrl,omitempty"`
	ResolutionNote   string     `json:"resolutionNote,omitempty"`
	ResolvedAt       *time.Time `json:"resolvedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Alert struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Ward      string    `json:"ward"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Solved     int64 `json:"solved"`
}

// ProfileUpdate carries the profile form. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
	Address     *string `json:"address,omitempty"`
	WardNumber  *int    `json:"wardNumber,omitempty"`
	Photo       *string `json:"photo,omitempty"`
	AadharPhoto *string `json:"aadharPhoto,omitempty"`
}

type ComplaintDraft struct {
	Category         string   `json:"category"`
	OtherDescription string   `json:"otherDescription,omitempty"`
	ImageURLs        []string `json:"imageUrls"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Address          string   `json:"address"`
	WardNumber       int      `json:"wardNumber"`
}

type StatusUpdate struct {
	Status           string  `json:"status"`
	SolutionImageURL *string `json:"solutionImageUrl,omitempty"`
	ResolutionNote   *string `json:"resolutionNote,omitempty"`
}

type AlertDraft struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Ward    string `json:"ward,omitempty"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// ComplaintFilter narrows the admin complaint list. Zero values are ignored.
type ComplaintFilter struct {
	Ward     int
	Category string
	Status   string
}

func (f ComplaintFilter) isZero() bool {
	return f.Ward == 0 && f.Category == "" && f.Status == ""
}

func (f ComplaintFilter) query() map[string]string {
	q := map[string]string{}
	if f.Ward > 0 {
		q["ward"] = strconv.Itoa(f.Ward)
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}
