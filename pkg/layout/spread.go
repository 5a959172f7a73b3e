package layout

// eps absorbs float noise when comparing box edges, so boxes placed edge
// to edge are not treated as overlapping.
const eps = 1e-9

// span is a run of consecutive vertices sharing the same ideal x.
type span struct {
	start, end int
	width      float64
	x          float64
}

// Spread resolves overlaps within one layer. xs holds the ideal centres in
// left-to-right order and widths the matching box widths; the result holds
// the new centres and the inputs are left untouched.
//
// Vertices with identical ideal x are packed side by side around that x.
// The middle span (or the two middle spans, nudged apart around their
// midpoint if they collide) keeps its position and every other span is
// pushed outward only as far as needed to clear its inner neighbour. For
// xs sorted ascending the result never overlaps.
func Spread(xs, widths []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}

	spans := []span{{start: 0, end: 0, width: widths[0], x: xs[0]}}
	for i := 1; i < len(xs); i++ {
		last := &spans[len(spans)-1]
		if xs[i] == last.x {
			last.end = i
			last.width += widths[i]
			continue
		}
		spans = append(spans, span{start: i, end: i, width: widths[i], x: xs[i]})
	}

	var left, right int
	switch n := len(spans); {
	case n == 1:
		left, right = -1, 1
	case n%2 == 1:
		mid := n / 2
		left, right = mid-1, mid+1
	default:
		e := n / 2
		s := e - 1
		if (spans[s].x+spans[s].width/2)-(spans[e].x-spans[e].width/2) > eps {
			mid := (spans[s].x + spans[e].x) / 2
			spans[s].x = mid - spans[s].width/2
			spans[e].x = mid + spans[e].width/2
		}
		left, right = s-1, e+1
	}

	for i := left; i >= 0; i-- {
		rightEdge := spans[i].x + spans[i].width/2
		limit := spans[i+1].x - spans[i+1].width/2
		if rightEdge-limit > eps {
			spans[i].x -= rightEdge - limit
		}
	}
	for i := right; i < len(spans); i++ {
		leftEdge := spans[i].x - spans[i].width/2
		limit := spans[i-1].x + spans[i-1].width/2
		if limit-leftEdge > eps {
			spans[i].x += limit - leftEdge
		}
	}

	for _, s := range spans {
		if s.start == s.end {
			out[s.start] = s.x
			continue
		}
		cursor := s.x - s.width/2
		for j := s.start; j <= s.end; j++ {
			out[j] = cursor + widths[j]/2
			cursor += widths[j]
		}
	}
	return out
}
