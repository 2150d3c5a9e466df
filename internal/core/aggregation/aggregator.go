package aggregation

import (
	"sort"
	"time"
)

// contribution folds one fact into a bucket.
// To count a new event kind: add an entry here. Kinds without an entry only bump Events.
type contribution func(b *Bucket, f Fact)

var contributions = map[string]contribution{
	"impression": func(b *Bucket, _ Fact) { b.Impressions++ },
	"click": func(b *Bucket, f Fact) {
		b.Clicks++
		b.Spend = b.Spend.Add(f.Value)
	},
	"conversion": func(b *Bucket, f Fact) {
		b.Conversions++
		b.Revenue = b.Revenue.Add(f.ConversionValue)
	},
}

// Add applies a single fact to the bucket.
func (b *Bucket) Add(f Fact) {
	b.Events++
	if fn, ok := contributions[f.Type]; ok {
		fn(b, f)
	}
}

// Matches reports whether the fact falls inside the query's time window and campaign filter.
func (q Query) Matches(f Fact) bool {
	if f.Timestamp.Before(q.Start) || f.Timestamp.After(q.End) {
		return false
	}
	return q.CampaignID == "" || q.CampaignID == f.CampaignID
}

// Fold evaluates q over an in-memory fact set with the same result shape the SQL
// backends produce: one totals row for GroupNone (zeroed when nothing matched),
// hours ascending, devices by event count, other facets by impressions.
func Fold(facts []Fact, q Query) []Bucket {
	groups := make(map[string]*Bucket)
	campaigns := make(map[string]map[string]struct{})

	for _, f := range facts {
		if !q.Matches(f) {
			continue
		}
		key, ts := groupKey(q.GroupBy, f)
		b, ok := groups[key]
		if !ok {
			b = &Bucket{Time: ts}
			if q.GroupBy != GroupHour && q.GroupBy != GroupNone {
				b.Key = key
			}
			groups[key] = b
			campaigns[key] = make(map[string]struct{})
		}
		b.Add(f)
		campaigns[key][f.CampaignID] = struct{}{}
	}

	if q.GroupBy == GroupNone && len(groups) == 0 {
		return []Bucket{{}}
	}

	out := make([]Bucket, 0, len(groups))
	for key, b := range groups {
		b.Campaigns = int64(len(campaigns[key]))
		out = append(out, *b)
	}
	SortBuckets(out, q.GroupBy)
	return ApplyLimit(out, q)
}

func groupKey(g GroupBy, f Fact) (string, time.Time) {
	switch g {
	case GroupHour:
		ts := BucketFor(f.Timestamp.UTC(), time.Hour)
		return ts.Format(time.RFC3339), ts
	case GroupDevice:
		return orUnknown(f.Device), time.Time{}
	case GroupCountry:
		return orUnknown(f.Country), time.Time{}
	case GroupCampaign:
		return f.CampaignID, time.Time{}
	default:
		return "", time.Time{}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownKey
	}
	return s
}

// SortBuckets orders buckets the way every backend returns them.
func SortBuckets(buckets []Bucket, g GroupBy) {
	if g == GroupHour {
		sort.Slice(buckets, func(i, j int) bool { return buckets[i].Time.Before(buckets[j].Time) })
		return
	}
	sort.Slice(buckets, func(i, j int) bool {
		if g == GroupDevice {
			if buckets[i].Events != buckets[j].Events {
				return buckets[i].Events > buckets[j].Events
			}
			return buckets[i].Key < buckets[j].Key
		}
		if buckets[i].Impressions != buckets[j].Impressions {
			return buckets[i].Impressions > buckets[j].Impressions
		}
		return buckets[i].Key < buckets[j].Key
	})
}

// ApplyLimit truncates facet groupings to q.Limit.
func ApplyLimit(buckets []Bucket, q Query) []Bucket {
	if q.Limit <= 0 || q.GroupBy == GroupHour || q.GroupBy == GroupNone {
		return buckets
	}
	if len(buckets) > q.Limit {
		return buckets[:q.Limit]
	}
	return buckets
}
