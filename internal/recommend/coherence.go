package recommend

import (
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-moodlist/internal/catalog"
	"github.com/justestif/go-moodlist/internal/mapping"
)

// trackObservation wraps a track to implement clusters.Observation.
type trackObservation struct {
	index  int
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// coherenceOrder reorders tracks so audio-feature clusters closest to the
// target mood vector come first. Within a cluster the incoming order is
// preserved; tracks without fetched features keep their order at the end.
// When clustering is not possible (too few tracks, k-means failure) the
// input order is returned unchanged.
func coherenceOrder(tracks []catalog.Track, criteria mapping.Criteria, numClusters int) []catalog.Track {
	if numClusters <= 0 {
		numClusters = 3
	}

	var obs clusters.Observations
	var withFeatures []int
	var withoutFeatures []int
	for i, t := range tracks {
		if t.Features == nil {
			withoutFeatures = append(withoutFeatures, i)
			continue
		}
		withFeatures = append(withFeatures, i)
		obs = append(obs, trackObservation{
			index:  i,
			coords: featureCoordinates(*t.Features),
		})
	}

	if len(withFeatures) < numClusters {
		return tracks
	}

	km := kmeans.New()
	result, err := km.Partition(obs, numClusters)
	if err != nil {
		return tracks
	}

	target := targetCoordinates(criteria)

	// Order clusters by centroid distance to the target mood.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Center.Distance(target) < result[j].Center.Distance(target)
	})

	ordered := make([]catalog.Track, 0, len(tracks))
	for _, cluster := range result {
		var indices []int
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				indices = append(indices, to.index)
			}
		}
		sort.Ints(indices)
		for _, idx := range indices {
			ordered = append(ordered, tracks[idx])
		}
	}
	for _, idx := range withoutFeatures {
		ordered = append(ordered, tracks[idx])
	}

	return ordered
}

// featureCoordinates projects track features into the clustering space.
// Dimension order matches targetCoordinates.
func featureCoordinates(f catalog.TrackFeatures) clusters.Coordinates {
	return clusters.Coordinates{f.Energy, f.Valence, f.Danceability, f.Acousticness}
}

// targetCoordinates derives the target mood vector from criteria range
// midpoints; absent dimensions are neutral.
func targetCoordinates(criteria mapping.Criteria) clusters.Coordinates {
	return clusters.Coordinates{
		rangeMidpoint(criteria.Energy),
		rangeMidpoint(criteria.Valence),
		rangeMidpoint(criteria.Danceability),
		rangeMidpoint(criteria.Acousticness),
	}
}

func rangeMidpoint(r *mapping.Range) float64 {
	if r == nil {
		return 0.5
	}
	return (r.Min + r.Max) / 2
}
