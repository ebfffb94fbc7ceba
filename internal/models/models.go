// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/media"
)

type NavigateRequest struct {
	Page string `json:"page" validate:"required"`
}

type FilterRequest struct {
	Page   string `json:"page" validate:"required"`
	Filter string `json:"filter" validate:"required"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// WatchRequest opens the player overlay for one catalog item.
type WatchRequest struct {
	ID   int    `json:"id" validate:"gt=0"`
	Type string `json:"type" validate:"oneof=movie tv"`
}

type SeasonRequest struct {
	Season int `json:"season" validate:"gt=0"`
}

type EpisodeRequest struct {
	Episode int `json:"episode" validate:"gt=0"`
}

type GenieRequest struct {
	Prompt string `json:"prompt"`
}

// GenieResponse carries either resolved movies or a user-facing error.
type GenieResponse struct {
	Results []media.Movie `json:"results"`
	Error   string        `json:"error,omitempty"`
	Mock    bool          `json:"mock,omitempty"`
}

type ContinueWatchingResponse struct {
	Items []history.Entry `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
