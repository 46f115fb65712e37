package geo

import "strings"

// chennaiCentre is the final geocoding fallback.
var chennaiCentre = Point{Lat: 13.0827, Lon: 80.2707}

// landmarks is the offline backup table for the city's common localities,
// used when Nominatim is unreachable or has no answer.
var landmarks = map[string]Point{
	"t.nagar":        {13.0418, 80.2341},
	"t nagar":        {13.0418, 80.2341},
	"anna nagar":     {13.0850, 80.2101},
	"adyar":          {13.0067, 80.2571},
	"velachery":      {12.9750, 80.2200},
	"tambaram":       {12.9229, 80.1275},
	"guindy":         {13.0067, 80.2206},
	"besant nagar":   {13.0001, 80.2668},
	"marina beach":   {13.0499, 80.2824},
	"mylapore":       {13.0333, 80.2667},
	"nungambakkam":   {13.0569, 80.2426},
	"kodambakkam":    {13.0518, 80.2244},
	"vadapalani":     {13.0504, 80.2124},
	"porur":          {13.0358, 80.1561},
	"sholinganallur": {12.9008, 80.2271},
	"perungudi":      {12.9611, 80.2425},
	"thiruvanmiyur":  {12.9826, 80.2588},
	"chrompet":       {12.9517, 80.1392},
}

// landmarkLookup matches a place name against the backup table, exact match
// first, then substring in either direction.
func landmarkLookup(place string) (Point, bool) {
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		return Point{}, false
	}
	if p, ok := landmarks[key]; ok {
		return p, true
	}
	for name, p := range landmarks {
		if strings.Contains(key, name) || strings.Contains(name, key) {
			return p, true
		}
	}
	return Point{}, false
}
