package asset

import "github.com/Carmen-Shannon/oxy-assets/engine/entity"

// Skin records the joint entities of one skin within an instance.
type Skin struct {
	// Name is the source skin name, possibly empty.
	Name string

	// Joints are the entities acting as skeleton joints, in source order.
	Joints []entity.Entity
}

// Instance is one independent expansion of a shared asset's node hierarchy.
// Instances reuse the owning container's GPU buffers and material instances
// but carry their own entities, root and skins.
type Instance struct {
	// Name identifies the instance within its container.
	Name string

	// Root is the entity at the top of the instance's hierarchy.
	Root entity.Entity

	// Entities are all entities belonging to this instance, in creation order.
	Entities []entity.Entity

	// Skins are the per-instance skin records.
	Skins []Skin
}
