package irpad

import "fmt"

// ApproxEqual reports whether value lies within margin of target, inclusive.
// Physical timings always jitter, so protocol code never compares durations for
// strict equality.
func ApproxEqual(value, target, margin uint32) bool {
	// written without subtraction so that small targets cannot underflow
	return uint64(target) <= uint64(value)+uint64(margin) &&
		uint64(value) <= uint64(target)+uint64(margin)
}

// Cluster is a group of similar pulse durations found by FindClusters.
type Cluster struct {
	// Length is the rounded mean of the durations absorbed by the cluster.
	Length uint32
	// Count is the number of durations absorbed by the cluster.
	Count int
}

type cluster struct {
	key uint32
	sum uint64
	n   int
}

// FindClusters groups durations in a single pass. A duration joins the first
// cluster whose current length is within 10% of it; the cluster's length then
// becomes the mean of its members and it moves behind the other clusters. A
// duration matching nothing starts a new cluster.
//
// Cluster lengths move as their means shift. When a cluster's new length lands
// exactly on the length of another cluster, it replaces that cluster in place and
// the replaced durations are forgotten.
func FindClusters(pulses []uint32) []Cluster {
	if len(pulses) == 0 {
		return nil
	}
	clusters := []cluster{{key: pulses[0], sum: uint64(pulses[0]), n: 1}}

	for _, p := range pulses[1:] {
		idx := -1
		for i := range clusters {
			if withinTenPercent(p, clusters[i].key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			clusters = append(clusters, cluster{key: p, sum: uint64(p), n: 1})
			continue
		}

		c := clusters[idx]
		clusters = append(clusters[:idx], clusters[idx+1:]...)
		c.sum += uint64(p)
		c.n++
		c.key = roundHalfEven(c.sum, c.n)

		replaced := false
		for i := range clusters {
			if clusters[i].key == c.key {
				clusters[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			clusters = append(clusters, c)
		}
	}

	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		out[i] = Cluster{Length: c.key, Count: c.n}
	}
	return out
}

func withinTenPercent(value, length uint32) bool {
	diff := int64(value) - int64(length)
	if diff < 0 {
		diff = -diff
	}
	return diff*10 <= int64(length)
}

// roundHalfEven returns sum/n rounded to the nearest integer, ties to even.
func roundHalfEven(sum uint64, n int) uint32 {
	d := uint64(n)
	q, r := sum/d, sum%d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}
	return uint32(q)
}

// GeneratePulses renders the nbits low bits of value as a pulse train, replacing
// every bit with its template. Bits are sent most significant first unless msbFirst
// is false. A header is prepended when it is non-nil and has a mark, a trailer
// mark is appended when it is nonzero.
//
// GeneratePulses panics if value does not fit in nbits.
func GeneratePulses(one, zero MarkSpace, nbits int, value uint64, header *MarkSpace, trailer uint32, msbFirst bool) PulseTrain {
	if nbits < 0 || nbits > 64 || (nbits < 64 && value>>uint(nbits) != 0) {
		panic(fmt.Sprintf("irpad: value %#x does not fit in %d bits", value, nbits))
	}

	size := 2 * nbits
	if header != nil && header.Mark() != 0 {
		size += 2
	}
	if trailer != 0 {
		size++
	}
	out := make(PulseTrain, 0, size)
	if header != nil && header.Mark() != 0 {
		out = append(out, header[0], header[1])
	}

	for i := 0; i < nbits; i++ {
		shift := uint(i)
		if msbFirst {
			shift = uint(nbits - 1 - i)
		}
		tmpl := zero
		if (value>>shift)&1 == 1 {
			tmpl = one
		}
		out = append(out, tmpl[0], tmpl[1])
	}

	if trailer != 0 {
		out = append(out, trailer)
	}
	return out
}

// Bits is a sequence of decoded bit values, each 0 or 1, in the order they were
// received.
type Bits []uint8

// Uint interprets the bits as an unsigned integer, first bit most significant.
func (b Bits) Uint() uint64 {
	var v uint64
	for _, bit := range b {
		v = v<<1 | uint64(bit&1)
	}
	return v
}

func (b Bits) String() string {
	buf := make([]byte, len(b))
	for i, bit := range b {
		buf[i] = '0' + bit&1
	}
	return string(buf)
}

// DecodeBits recovers bit values from a captured train.
//
// The unit length is learnt from the capture itself: durations are clustered,
// clusters seen only once (usually a header) are discarded, and the shortest
// remaining length is the unit. Pulses that fit none of the remaining clusters
// within half a unit are removed before decoding.
//
// When one and zero are given the first bit is classified against them.
// Otherwise the first bit is taken to be a 1 and the template for 0 is learnt
// from the first pair that differs from it. A third distinct pair fails with
// ErrAmbiguousTiming.
//
// If trailer is set, an odd final pulse is a trailer mark and is ignored.
// Otherwise an odd final pulse is a bit whose space was never recorded and is
// classified by its mark alone.
func DecodeBits(pulses PulseTrain, one, zero *MarkSpace, trailer bool) (Bits, error) {
	if (one == nil) != (zero == nil) {
		panic("irpad: DecodeBits needs both bit templates or neither")
	}

	work := pulses.Clone()
	if len(work)%2 == 1 && trailer {
		work = work[:len(work)-1]
	}

	var lengths []uint32
	for _, c := range FindClusters(work) {
		if c.Count > 1 {
			lengths = append(lengths, c.Length)
		}
	}
	if len(lengths) == 0 {
		return nil, NewDecodeError("", ErrMalformedFrame, -1, "no repeated pulse length among %d pulses", len(work))
	}

	unit := lengths[0]
	for _, l := range lengths[1:] {
		if l < unit {
			unit = l
		}
	}
	margin := unit / 2

	// filtering in place is fine, work is our own copy
	filtered := work[:0]
	for _, p := range work {
		if _, ok := nearestLength(p, lengths, margin); ok {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) < 2 {
		return nil, NewDecodeError("", ErrMalformedFrame, -1, "%d pulses left after removing outliers", len(filtered))
	}

	first := theoreticalBit(MarkSpace{filtered[0], filtered[1]}, lengths, margin)
	firstValue := uint8(1)
	var other MarkSpace
	haveOther := false
	if one != nil {
		if pairEqual(first, *one, margin) {
			other = *zero
		} else {
			firstValue = 0
			other = *one
		}
		haveOther = true
	}

	bits := make(Bits, 1, len(filtered)/2+1)
	bits[0] = firstValue
	for i := 2; i < len(filtered); i += 2 {
		if i+1 == len(filtered) {
			// the last space was not recorded
			if ApproxEqual(filtered[i], first.Mark(), margin) {
				bits = append(bits, firstValue)
			} else {
				bits = append(bits, 1-firstValue)
			}
			continue
		}

		pair := MarkSpace{filtered[i], filtered[i+1]}
		switch {
		case pairEqual(pair, first, margin):
			bits = append(bits, firstValue)
		case !haveOther:
			other = theoreticalBit(pair, lengths, margin)
			haveOther = true
			bits = append(bits, 1-firstValue)
		case pairEqual(pair, other, margin):
			bits = append(bits, 1-firstValue)
		default:
			return nil, NewDecodeError("", ErrAmbiguousTiming, i,
				"pair %v matches neither %v nor %v", theoreticalBit(pair, lengths, margin), first, other)
		}
	}
	return bits, nil
}

func nearestLength(p uint32, lengths []uint32, margin uint32) (uint32, bool) {
	for _, l := range lengths {
		if ApproxEqual(p, l, margin) {
			return l, true
		}
	}
	return 0, false
}

// theoreticalBit replaces each duration of pair with the cluster length it
// belongs to.
func theoreticalBit(pair MarkSpace, lengths []uint32, margin uint32) MarkSpace {
	var out MarkSpace
	for i, p := range pair {
		if l, ok := nearestLength(p, lengths, margin); ok {
			out[i] = l
		} else {
			out[i] = p
		}
	}
	return out
}

func pairEqual(a, b MarkSpace, margin uint32) bool {
	return ApproxEqual(a[0], b[0], margin) && ApproxEqual(a[1], b[1], margin)
}
