// SPDX-License-Identifier: MIT
// Package: usgflow/particletrack
//
// track.go — track types and queries.
//
// Contract:
//   • Pathline points are kept in file order; MaxTime and Filter look at
//     every point.
//   • Destination keeps a pathline when any of its points lies in one of
//     the nodes; an endpoint when its final node does.

package particletrack

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/usgflow/datafile"
)

// Direction is the tracking direction.
type Direction int

const (
	// Forward tracking.
	Forward Direction = 1
	// Backward tracking.
	Backward Direction = 2
)

// TrackPoint is one location of a particle.
type TrackPoint struct {
	X, Y, Z float64
	Time    float64
	Node    int
	Layer   int
}

// Pathline is the track of one particle.
type Pathline struct {
	ParticleID int
	Group      int
	Points     []TrackPoint
}

// Pathlines is a set of tracks in file order.
type Pathlines struct {
	Direction Direction
	Lines     []*Pathline
	byID      map[int]int
	status    []int // per line, PRT only
}

func newPathlines(dir Direction, lines []*Pathline) *Pathlines {
	p := &Pathlines{Direction: dir, Lines: lines, byID: make(map[int]int, len(lines))}
	for i, l := range lines {
		p.byID[l.ParticleID] = i
	}
	return p
}

// Get returns the pathline of particle id.
func (p *Pathlines) Get(id int) (*Pathline, error) {
	i, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("particle %d: %w", id, datafile.ErrNotFound)
	}
	return p.Lines[i], nil
}

// All returns every pathline ordered by particle id.
func (p *Pathlines) All() []*Pathline {
	out := append([]*Pathline(nil), p.Lines...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ParticleID < out[j].ParticleID })
	return out
}

// MaxID returns the largest particle id, -1 when empty.
func (p *Pathlines) MaxID() int {
	m := -1
	for _, l := range p.Lines {
		m = max(m, l.ParticleID)
	}
	return m
}

// MaxTime returns the largest tracking time of any point.
func (p *Pathlines) MaxTime() float64 {
	var m float64
	for _, l := range p.Lines {
		for _, pt := range l.Points {
			m = max(m, pt.Time)
		}
	}
	return m
}

// Destination returns the pathlines passing through any of nodes.
func (p *Pathlines) Destination(nodes ...int) []*Pathline {
	set := nodeSet(nodes)
	var out []*Pathline
	for _, l := range p.Lines {
		for _, pt := range l.Points {
			if _, ok := set[pt.Node]; ok {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// Filter returns copies of the pathlines holding only points at or after
// totim (ge) or at or before it (!ge). Pathlines left without points are
// dropped.
func (p *Pathlines) Filter(totim float64, ge bool) []*Pathline {
	var out []*Pathline
	for _, l := range p.Lines {
		var pts []TrackPoint
		for _, pt := range l.Points {
			if (ge && pt.Time >= totim) || (!ge && pt.Time <= totim) {
				pts = append(pts, pt)
			}
		}
		if len(pts) > 0 {
			out = append(out, &Pathline{ParticleID: l.ParticleID, Group: l.Group, Points: pts})
		}
	}
	return out
}

// Endpoints derives an endpoint per pathline from its first and last
// points. Status is the last status a PRT file reported, 0 otherwise.
func (p *Pathlines) Endpoints() *Endpoints {
	eps := make([]*Endpoint, 0, len(p.Lines))
	for i, l := range p.Lines {
		if len(l.Points) == 0 {
			continue
		}
		ep := &Endpoint{
			ParticleID: l.ParticleID,
			Group:      l.Group,
			Initial:    l.Points[0],
			Final:      l.Points[len(l.Points)-1],
		}
		if i < len(p.status) {
			ep.Status = p.status[i]
		}
		eps = append(eps, ep)
	}
	return newEndpoints(p.Direction, eps, nil)
}

// Endpoint is the release and termination of one particle.
type Endpoint struct {
	ParticleID int
	Group      int
	Status     int
	Initial    TrackPoint
	Final      TrackPoint
	// InitialZone and FinalZone are the zone numbers the file reports.
	InitialZone, FinalZone int
}

// Endpoints is a set of endpoints in file order.
type Endpoints struct {
	Direction Direction
	Points    []*Endpoint
	// Groups holds particle group names when the file lists them.
	Groups []string
	byID   map[int]int
}

func newEndpoints(dir Direction, eps []*Endpoint, groups []string) *Endpoints {
	e := &Endpoints{Direction: dir, Points: eps, Groups: groups, byID: make(map[int]int, len(eps))}
	for i, ep := range eps {
		e.byID[ep.ParticleID] = i
	}
	return e
}

// Get returns the endpoint of particle id.
func (e *Endpoints) Get(id int) (*Endpoint, error) {
	i, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("particle %d: %w", id, datafile.ErrNotFound)
	}
	return e.Points[i], nil
}

// All returns every endpoint ordered by particle id.
func (e *Endpoints) All() []*Endpoint {
	out := append([]*Endpoint(nil), e.Points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ParticleID < out[j].ParticleID })
	return out
}

// MaxID returns the largest particle id, -1 when empty.
func (e *Endpoints) MaxID() int {
	m := -1
	for _, ep := range e.Points {
		m = max(m, ep.ParticleID)
	}
	return m
}

// MaxTime returns the largest final tracking time.
func (e *Endpoints) MaxTime() float64 {
	var m float64
	for _, ep := range e.Points {
		m = max(m, ep.Final.Time)
	}
	return m
}

// Destination returns the endpoints terminating in any of nodes.
func (e *Endpoints) Destination(nodes ...int) []*Endpoint {
	set := nodeSet(nodes)
	var out []*Endpoint
	for _, ep := range e.Points {
		if _, ok := set[ep.Final.Node]; ok {
			out = append(out, ep)
		}
	}
	return out
}

// Filter returns the endpoints whose final time is at or after totim (ge)
// or at or before it (!ge).
func (e *Endpoints) Filter(totim float64, ge bool) []*Endpoint {
	var out []*Endpoint
	for _, ep := range e.Points {
		if (ge && ep.Final.Time >= totim) || (!ge && ep.Final.Time <= totim) {
			out = append(out, ep)
		}
	}
	return out
}

func nodeSet(nodes []int) map[int]struct{} {
	set := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		set[n] = struct{}{}
	}
	return set
}
