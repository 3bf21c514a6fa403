package model

import (
	"time"
)

type ChallengeCategory int

type ChallengeSort string

const (
	CategoryExercise  ChallengeCategory = 0
	CategoryLearning  ChallengeCategory = 1
	CategoryLifestyle ChallengeCategory = 2
	CategoryHobby     ChallengeCategory = 3

	SortNewest     ChallengeSort = "newest"
	SortPopularity ChallengeSort = "popularity"
)

func (c ChallengeCategory) IsValid() bool {
	return c >= CategoryExercise && c <= CategoryHobby
}

type Challenge struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Category          ChallengeCategory `json:"category"`
	Description       string            `json:"description"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	RepImagePath      *string           `json:"rep_image_path,omitempty"`
	ExampleImagePaths []string          `json:"example_image_paths,omitempty"`
	ViewCount         int64             `json:"view_count"`
	AuthorID          int64             `json:"author_id"`
	AuthorName        *string           `json:"author_name,omitempty"` // For display
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// WindowDays is the length of the challenge window in days, at least 1.
func (c *Challenge) WindowDays() int {
	days := int(c.EndDate.Sub(c.StartDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// ChallengeTitle is the lightweight shape backing title autocomplete.
type ChallengeTitle struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
