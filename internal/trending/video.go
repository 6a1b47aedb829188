// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package trending defines the flat trending-video record and its CSV form.
package trending

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ManuGH/trendscope/internal/youtube"
)

// Column names, in the order the fetcher writes them.
const (
	ColTitle       = "title"
	ColChannel     = "channel"
	ColCategoryID  = "category_id"
	ColPublishTime = "publish_time"
	ColViews       = "views"
	ColLikes       = "likes"
	ColComments    = "comments"
	ColDuration    = "duration"
)

// Header is the CSV header row.
var Header = []string{
	ColTitle, ColChannel, ColCategoryID, ColPublishTime,
	ColViews, ColLikes, ColComments, ColDuration,
}

// Video is one trending record. PublishTime keeps the API's RFC 3339 text;
// the analyzer parses it. Duration is the ISO-8601 string as delivered.
type Video struct {
	Title       string
	Channel     string
	CategoryID  string
	PublishTime string
	Views       uint64
	Likes       uint64
	Comments    uint64
	Duration    string
}

// FromAPI flattens one API item. Absent statistics are already zero on the
// youtube.Count fields, so they come out as 0.
func FromAPI(item youtube.Video) Video {
	return Video{
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		CategoryID:  item.Snippet.CategoryID,
		PublishTime: item.Snippet.PublishedAt,
		Views:       uint64(item.Statistics.ViewCount),
		Likes:       uint64(item.Statistics.LikeCount),
		Comments:    uint64(item.Statistics.CommentCount),
		Duration:    item.ContentDetails.Duration,
	}
}

// Flatten converts every item of a response, preserving order.
func Flatten(res *youtube.VideoListResponse) []Video {
	if res == nil {
		return []Video{}
	}
	out := make([]Video, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, FromAPI(item))
	}
	return out
}

// Row returns the record as CSV cells in Header order.
func (v Video) Row() []string {
	return []string{
		v.Title,
		v.Channel,
		v.CategoryID,
		v.PublishTime,
		strconv.FormatUint(v.Views, 10),
		strconv.FormatUint(v.Likes, 10),
		strconv.FormatUint(v.Comments, 10),
		v.Duration,
	}
}

// Rows converts a slice of records to CSV cells.
func Rows(videos []Video) [][]string {
	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, v.Row())
	}
	return rows
}

// WriteCSV writes the header followed by one line per record.
func WriteCSV(w io.Writer, videos []Video) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, v := range videos {
		if err := cw.Write(v.Row()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
