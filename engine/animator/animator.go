// Package animator exposes the animation clips of a loaded asset for
// introspection. Clips are snapshotted at construction time so the facade
// stays valid after the asset's source data has been released.
package animator

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/gltf"
)

// Animator lists the animation clips of an asset, their durations and the
// entities they drive.
type Animator interface {
	// ClipCount returns the number of animation clips.
	ClipCount() int

	// ClipName returns the clip's source name, or a generated fallback when
	// the source left it empty.
	//
	// Parameters:
	//   - clip: the clip index
	//
	// Returns:
	//   - string: the clip name
	ClipName(clip int) string

	// ClipDuration returns the clip's length in seconds, derived from the
	// latest keyframe time across its channels.
	ClipDuration(clip int) float32

	// TargetEntities returns the entities the clip's channels drive, deduped
	// and in ascending order.
	TargetEntities(clip int) []entity.Entity
}

type clip struct {
	name     string
	duration float32
	targets  []entity.Entity
}

type animator struct {
	clips []clip
}

var _ Animator = &animator{}

// New snapshots the animations of a parsed document.
//
// Parameters:
//   - parser: the parser holding the source document and buffer data
//   - nodeEntities: the entity created for each source node index
//
// Returns:
//   - Animator: the introspection facade
func New(parser gltf.Parser, nodeEntities map[int]entity.Entity) Animator {
	doc := parser.Document()
	a := &animator{}
	if doc == nil {
		return a
	}
	a.clips = make([]clip, 0, len(doc.Animations))
	for i, anim := range doc.Animations {
		c := clip{name: anim.Name}
		if c.name == "" {
			c.name = fmt.Sprintf("animation_%d", i)
		}
		seen := make(map[entity.Entity]struct{})
		for _, ch := range anim.Channels {
			if ch.Sampler >= 0 && ch.Sampler < len(anim.Samplers) {
				end := samplerEnd(parser, doc, anim.Samplers[ch.Sampler])
				if end > c.duration {
					c.duration = end
				}
			}
			if ch.Target.Node == nil {
				continue
			}
			e, ok := nodeEntities[*ch.Target.Node]
			if !ok || e.IsNull() {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			c.targets = append(c.targets, e)
		}
		sort.Slice(c.targets, func(x, y int) bool { return c.targets[x] < c.targets[y] })
		a.clips = append(a.clips, c)
	}
	return a
}

// samplerEnd returns the last keyframe time of a sampler's input accessor,
// preferring the accessor's declared max over a full data read.
func samplerEnd(parser gltf.Parser, doc *gltf.Document, s gltf.AnimSampler) float32 {
	if s.Input < 0 || s.Input >= len(doc.Accessors) {
		return 0
	}
	acc := doc.Accessors[s.Input]
	if len(acc.Max) > 0 {
		return acc.Max[0]
	}
	times, err := parser.ReadScalarAccessor(s.Input)
	if err != nil {
		common.LogWarn("cannot read keyframe times for accessor %d: %v", s.Input, err)
		return 0
	}
	var end float32
	for _, t := range times {
		if t > end {
			end = t
		}
	}
	return end
}

func (a *animator) ClipCount() int {
	return len(a.clips)
}

func (a *animator) ClipName(clip int) string {
	if clip < 0 || clip >= len(a.clips) {
		return ""
	}
	return a.clips[clip].name
}

func (a *animator) ClipDuration(clip int) float32 {
	if clip < 0 || clip >= len(a.clips) {
		return 0
	}
	return a.clips[clip].duration
}

func (a *animator) TargetEntities(clip int) []entity.Entity {
	if clip < 0 || clip >= len(a.clips) {
		return nil
	}
	return a.clips[clip].targets
}
