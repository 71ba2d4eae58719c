package loader

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/entity"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"
)

// AssetLoaderOption is a functional option applied during construction via
// NewAssetLoader.
type AssetLoaderOption func(*assetLoader)

// WithEngine sets the GPU engine buffer and texture handles are created
// through. Required.
//
// Parameters:
//   - e: the engine
//
// Returns:
//   - AssetLoaderOption: a function that applies the engine to a loader
func WithEngine(e renderer.Engine) AssetLoaderOption {
	return func(l *assetLoader) {
		l.engine = e
	}
}

// WithMaterialProvider sets the source of material instances. Defaults to
// material.NewProvider().
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - AssetLoaderOption: a function that applies the provider to a loader
func WithMaterialProvider(p material.Provider) AssetLoaderOption {
	return func(l *assetLoader) {
		l.provider = p
	}
}

// WithEntityManager sets the manager that allocates the entities of every
// loaded asset. Defaults to a fresh manager.
//
// Parameters:
//   - m: the entity manager
//
// Returns:
//   - AssetLoaderOption: a function that applies the manager to a loader
func WithEntityManager(m entity.Manager) AssetLoaderOption {
	return func(l *assetLoader) {
		l.entityMgr = m
	}
}

// WithNameManager sets the shared registry entity names are recorded in.
// Defaults to a fresh registry.
//
// Parameters:
//   - m: the name manager
//
// Returns:
//   - AssetLoaderOption: a function that applies the manager to a loader
func WithNameManager(m entity.NameManager) AssetLoaderOption {
	return func(l *assetLoader) {
		l.nameMgr = m
	}
}

// WithTransformManager sets the store for the loaded transform hierarchy.
// Defaults to a fresh store.
//
// Parameters:
//   - m: the transform manager
//
// Returns:
//   - AssetLoaderOption: a function that applies the manager to a loader
func WithTransformManager(m entity.TransformManager) AssetLoaderOption {
	return func(l *assetLoader) {
		l.transform = m
	}
}

// NewAssetLoader creates an AssetLoader. The engine option is required; the
// collaborator options default to fresh instances when omitted.
//
// Parameters:
//   - opts: configuration, see the With* options
//
// Returns:
//   - AssetLoader: the new loader
func NewAssetLoader(opts ...AssetLoaderOption) AssetLoader {
	l := &assetLoader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.provider == nil {
		l.provider = material.NewProvider()
	}
	if l.entityMgr == nil {
		l.entityMgr = entity.NewManager()
	}
	if l.nameMgr == nil {
		l.nameMgr = entity.NewNameManager()
	}
	if l.transform == nil {
		l.transform = entity.NewTransformManager()
	}
	return l
}
