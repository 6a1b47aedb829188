// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// VideoListResponse is the subset of a videos.list response trendscope consumes.
type VideoListResponse struct {
	Kind          string   `json:"kind,omitempty"`
	ETag          string   `json:"etag,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
	PageInfo      PageInfo `json:"pageInfo"`
	Items         []Video  `json:"items"`
}

type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// Video is one item of the response. Parts that were not requested stay zero.
type Video struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	Statistics     Statistics     `json:"statistics"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

type Snippet struct {
	PublishedAt  string `json:"publishedAt"`
	ChannelID    string `json:"channelId,omitempty"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	CategoryID   string `json:"categoryId"`
}

// Statistics counters are omitted by the API when the owner hides them
// (likes are commonly hidden, comments absent when disabled); absent means 0.
type Statistics struct {
	ViewCount    Count `json:"viewCount"`
	LikeCount    Count `json:"likeCount"`
	CommentCount Count `json:"commentCount"`
}

type ContentDetails struct {
	Duration   string `json:"duration"`
	Definition string `json:"definition,omitempty"`
}

// Count is an unsigned counter that the API transmits as a decimal string.
// It also accepts plain JSON numbers and null.
type Count uint64

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("youtube: invalid count %q: %w", string(data), err)
	}
	*c = Count(n)
	return nil
}

// MarshalJSON emits the API's string form so cached responses decode identically.
func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(c), 10))
}

// apiErrorBody is the error envelope returned with non-2xx responses.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
