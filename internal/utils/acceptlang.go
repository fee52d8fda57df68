package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale picks the response language. An explicit query value wins,
// then the highest-weighted Accept-Language entry, then def. Regional tags
// such as en-US resolve to their base language.
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := make(map[string]bool, len(supported))
	for _, s := range supported {
		sup[strings.ToLower(s)] = true
	}
	pick := func(tag string) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return "", false
		}
		if sup[tag] {
			return tag, true
		}
		if base, _, ok := strings.Cut(tag, "-"); ok && sup[base] {
			return base, true
		}
		return "", false
	}

	if v, ok := pick(queryLang); ok {
		return v
	}

	type weighted struct {
		lang string
		q    float64
	}
	var cands []weighted
	for _, part := range strings.Split(acceptLang, ",") {
		tag, params, _ := strings.Cut(part, ";")
		q := 1.0
		if k, v, ok := strings.Cut(strings.TrimSpace(params), "="); ok && strings.TrimSpace(k) == "q" {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				q = f
			}
		}
		if q <= 0 {
			continue
		}
		if l, ok := pick(tag); ok {
			cands = append(cands, weighted{lang: l, q: q})
		}
	}
	if len(cands) > 0 {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
		return cands[0].lang
	}
	if v, ok := pick(def); ok {
		return v
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "en"
}
