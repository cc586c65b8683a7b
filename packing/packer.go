package packing

import (
	"image"
	"math/rand"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/spritemapper/anneal"
)

// ErrInternal marks a broken packing invariant. It is never caused by input.
var ErrInternal = errors.New("packing: internal error")

// Annealing parameters used for every packing.
const (
	StartTemperature = 800000
	FloorTemperature = 1100
	DefaultSteps     = 9200
	ReportUpdates    = 20
)

// Options tune a call to Pack.
type Options struct {
	// AnnealSteps is the number of trials. Zero keeps the area-sorted
	// insertion order.
	AnnealSteps int
	Seed        int64

	// Report, if set, receives annealing progress. By default progress is
	// logged at verbosity 2.
	Report func(anneal.Progress)
}

// DefaultOptions returns the options used by the spritemapper tools.
func DefaultOptions() Options {
	return Options{AnnealSteps: DefaultSteps}
}

// Placement is the position a box ended up at.
type Placement struct {
	Pos image.Point
	Box *Box
}

// Rect is the rect covered by the box's pixels.
func (p Placement) Rect() Rect { return p.Box.CalcBox(p.Pos) }

// Packed is the outcome of packing a set of boxes.
type Packed struct {
	Placements []Placement
	Size       image.Point

	// Root is the partition tree of the best layout, cropped to Size.
	Root *Node

	// Energy is the canvas area of the best layout seen while annealing.
	Energy int

	// OptimalArea is the summed outer area of all boxes.
	OptimalArea int
}

func (p *Packed) Area() int       { return p.Size.X * p.Size.Y }
func (p *Packed) UnusedArea() int { return p.Area() - p.OptimalArea }

// UnusedAmount is the fraction of the canvas left empty.
func (p *Packed) UnusedAmount() float64 {
	if p.Area() == 0 {
		return 0
	}
	return float64(p.UnusedArea()) / float64(p.Area())
}

// BitDepth is the highest bit depth among the placed boxes (8 if none).
func (p *Packed) BitDepth() int {
	bd := 8
	for _, pl := range p.Placements {
		bd = max(bd, pl.Box.Source().BitDepth())
	}
	return bd
}

type layout struct {
	root       *Node
	placements []Placement
	w, h       int
}

type packer struct {
	boxes      []*Box
	maxW, maxH int
}

// layout inserts the boxes in state order into a fresh root big enough for
// any order.
func (p *packer) layout(state []int) (*layout, error) {
	l := &layout{root: NewRoot(p.maxW, p.maxH)}
	l.placements = make([]Placement, 0, len(state))
	for _, idx := range state {
		b := p.boxes[idx]
		op, err := Insert(l.root, b)
		if err != nil {
			return nil, errors.Wrapf(ErrInternal, "inserting %v: %v", b, err)
		}
		l.placements = append(l.placements, Placement{Pos: op.Rect.Min(), Box: b})
		l.w = max(l.w, op.Rect.X2)
		l.h = max(l.h, op.Rect.Y2)
	}
	return l, nil
}

func (p *packer) energy(state []int) (float64, error) {
	l, err := p.layout(state)
	if err != nil {
		return 0, err
	}
	return float64(l.w * l.h), nil
}

// swap exchanges two distinct random positions of a copy of state.
func swap(state []int, rng *rand.Rand) []int {
	next := make([]int, len(state))
	copy(next, state)
	a := rng.Intn(len(next))
	b := rng.Intn(len(next) - 1)
	if b >= a {
		b++
	}
	next[a], next[b] = next[b], next[a]
	return next
}

// Pack finds a small canvas holding every box and returns the placements.
//
// Boxes are first sorted by area, then the insertion order is annealed.
// Passing the same boxes and options always yields the same result.
func Pack(boxes []*Box, opts Options) (*Packed, error) {
	if opts.AnnealSteps < 0 {
		return nil, errors.Errorf("packing: anneal steps %d < 0", opts.AnnealSteps)
	}

	sorted := make([]*Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() < sorted[j].Area()
	})

	p := &packer{boxes: sorted}
	optimal := 0
	for _, b := range sorted {
		p.maxW += b.OuterWidth()
		p.maxH += b.OuterHeight()
		optimal += b.OuterArea()
	}

	if len(sorted) == 0 {
		return &Packed{Root: NewRoot(0, 0)}, nil
	}

	state := make([]int, len(sorted))
	for i := range state {
		state[i] = i
	}

	if len(sorted) > 1 && opts.AnnealSteps > 0 {
		report := opts.Report
		if report == nil {
			report = func(pr anneal.Progress) {
				glog.V(2).Infof("anneal %d/%d T=%.1f E=%.0f best=%.0f accept=%.2f improve=%.2f",
					pr.Step, pr.Steps, pr.T, pr.Energy, pr.Best, pr.Accept, pr.Improve)
			}
		}
		sched := anneal.Schedule{
			Tmax:    StartTemperature,
			Tmin:    FloorTemperature,
			Steps:   opts.AnnealSteps,
			Updates: ReportUpdates,
			Report:  report,
		}
		rng := rand.New(rand.NewSource(opts.Seed))
		var err error
		state, _, err = anneal.Anneal(state, p.energy, swap, sched, rng)
		if err != nil {
			return nil, err
		}
	}

	best, err := p.layout(state)
	if err != nil {
		return nil, err
	}
	Crop(best.root, best.w, best.h)

	return &Packed{
		Placements:  best.placements,
		Size:        image.Pt(best.w, best.h),
		Root:        best.root,
		Energy:      best.w * best.h,
		OptimalArea: optimal,
	}, nil
}
