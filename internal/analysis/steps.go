// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package analysis

import (
	"github.com/ManuGH/trendscope/internal/dataset"
	"github.com/ManuGH/trendscope/internal/render"
	"github.com/ManuGH/trendscope/internal/stats"
	"github.com/ManuGH/trendscope/internal/trending"
	"gonum.org/v1/plot"
)

// Step names, also used as metric labels.
const (
	StepViewsLikes  = "views_likes"
	StepCorrelation = "correlation"
	StepWordCloud   = "wordcloud"
	StepPublishHour = "publish_hour"
)

// WordCloudLimit is the maximum number of words placed on the word cloud.
const WordCloudLimit = 150

var counterColumns = []string{trending.ColViews, trending.ColLikes, trending.ColComments}

type step struct {
	name  string
	file  string
	size  render.Size
	ready func(*dataset.Table) bool
	build func(*dataset.Table) (*plot.Plot, error)
}

// steps lists the analysis steps in report order.
var steps = []step{
	{
		name: StepViewsLikes,
		file: "views_vs_likes.png",
		size: render.ChartSize,
		ready: func(t *dataset.Table) bool {
			return t.Has(trending.ColViews, trending.ColLikes)
		},
		build: viewsVsLikes,
	},
	{
		name:  StepCorrelation,
		file:  "correlation.png",
		size:  render.ChartSize,
		ready: func(t *dataset.Table) bool { return len(presentCounters(t)) >= 2 },
		build: correlation,
	},
	{
		name:  StepWordCloud,
		file:  "wordcloud.png",
		size:  render.CloudSize,
		ready: func(t *dataset.Table) bool { return t.Has(trending.ColTitle) },
		build: wordCloud,
	},
	{
		name:  StepPublishHour,
		file:  "publish_hour.png",
		size:  render.ChartSize,
		ready: func(t *dataset.Table) bool { return t.Has(trending.ColPublishTime) },
		build: publishHour,
	},
}

func presentCounters(t *dataset.Table) []string {
	var out []string
	for _, c := range counterColumns {
		if t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func viewsVsLikes(t *dataset.Table) (*plot.Plot, error) {
	views, _ := t.Floats(trending.ColViews)
	likes, _ := t.Floats(trending.ColLikes)
	return render.Scatter(render.TitleViewsLikes, trending.ColViews, trending.ColLikes, views, likes)
}

func correlation(t *dataset.Table) (*plot.Plot, error) {
	labels := presentCounters(t)
	cols := make([][]float64, len(labels))
	for i, c := range labels {
		cols[i], _ = t.Floats(c)
	}
	m, err := stats.Correlation(labels, cols)
	if err != nil {
		return nil, err
	}
	return render.Heatmap(render.TitleCorrelation, m)
}

func wordCloud(t *dataset.Table) (*plot.Plot, error) {
	titles, _ := t.Strings(trending.ColTitle)
	words := stats.WordFrequencies(titles, WordCloudLimit)
	return render.WordCloud(render.TitleWordCloud, render.LayoutWords(words))
}

func publishHour(t *dataset.Table) (*plot.Plot, error) {
	times, _ := t.Times(trending.ColPublishTime)
	return render.HourHistogram(render.TitlePublishHour, stats.Hours(times))
}
