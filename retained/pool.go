package retained

import "sync"

// ============================================================================
// Request Slice Pooling
// ============================================================================
//
// Every component copies its children's requests into a flat slice twice per
// frame (once for RequestSize, once for Build). Pooling those slices keeps
// the per-frame rebuild from allocating one slice per component per pass.
//
// Usage:
//   reqs := acquireRequestSlice(len(children))
//   defer releaseRequestSlice(reqs)

var requestSlicePool = sync.Pool{
	New: func() interface{} {
		s := make([]SizeRequest, 0, 16)
		return &s
	},
}

// acquireRequestSlice returns a slice with len == n. Caller must call
// releaseRequestSlice when done and must not keep the slice.
func acquireRequestSlice(n int) []SizeRequest {
	sp := requestSlicePool.Get().(*[]SizeRequest)
	if cap(*sp) < n {
		requestSlicePool.Put(sp)
		return make([]SizeRequest, n, n*2)
	}
	return (*sp)[:n]
}

// releaseRequestSlice returns a slice to the pool.
func releaseRequestSlice(s []SizeRequest) {
	if s == nil {
		return
	}
	// Only pool slices up to a reasonable size to avoid memory bloat
	if cap(s) > 256 {
		return
	}
	clear(s)
	s = s[:0]
	requestSlicePool.Put(&s)
}

// ============================================================================
// Draw List Pooling
// ============================================================================

var drawListPool = sync.Pool{
	New: func() interface{} {
		return NewDrawList(64)
	},
}

// AcquireDrawList returns an empty draw list. Release it with
// ReleaseDrawList once the renderer has consumed it.
func AcquireDrawList() *DrawList {
	l := drawListPool.Get().(*DrawList)
	l.Reset()
	return l
}

// ReleaseDrawList returns a list to the pool. The list and its items must not
// be used afterwards.
func ReleaseDrawList(l *DrawList) {
	if l == nil || cap(l.items) > 4096 {
		return
	}
	clear(l.items)
	l.Reset()
	drawListPool.Put(l)
}
