package ombra

// Extent2D is a width/height pair in pixels or world texels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

func NewExtent2D(width, height uint32) Extent2D {
	return Extent2D{Width: width, Height: height}
}

// Framebuffer is a bindable render destination. Handle 0 is the default
// framebuffer of the context.
type Framebuffer struct {
	Handle uint32

	// Extent is the physical pixel size of the attachments.
	Extent Extent2D

	// VirtualExtent is the resolution shaders should reason about. A
	// supersampled buffer keeps the virtual extent of the surface it will
	// be presented to, so pixel-space and shadow-frustum math stay stable.
	VirtualExtent Extent2D
}

func (f *Framebuffer) Bind(backend Backend) {
	backend.BindFramebuffer(f.Handle)
}

// RenderTarget is anything a pass can render onto.
type RenderTarget interface {
	Framebuffer() *Framebuffer
}

// DefaultTarget wraps the context's default framebuffer.
type DefaultTarget struct {
	framebuffer Framebuffer
}

func NewDefaultTarget(extent Extent2D) *DefaultTarget {
	return &DefaultTarget{
		framebuffer: Framebuffer{Handle: 0, Extent: extent, VirtualExtent: extent},
	}
}

// SetVirtualExtent declares the offscreen resolution this target presents.
func (t *DefaultTarget) SetVirtualExtent(extent Extent2D) {
	t.framebuffer.VirtualExtent = extent
}

func (t *DefaultTarget) Framebuffer() *Framebuffer {
	return &t.framebuffer
}

// OffscreenTarget owns its attachments: zero or one color texture plus an
// optional depth texture.
type OffscreenTarget struct {
	framebuffer  Framebuffer
	ColorTexture *Texture
	DepthTexture *Texture
}

func (t *OffscreenTarget) Framebuffer() *Framebuffer {
	return &t.framebuffer
}

// GeometryTarget creates an offscreen color+depth target for the lit
// geometry pass.
func GeometryTarget(backend Backend, extent Extent2D) *OffscreenTarget {
	color := ColorTexture(backend, extent)
	depth := DepthTexture(backend, extent)
	handle := backend.CreateFramebuffer(color.Handle, depth.Handle)

	return &OffscreenTarget{
		framebuffer:  Framebuffer{Handle: handle, Extent: extent, VirtualExtent: extent},
		ColorTexture: &color,
		DepthTexture: &depth,
	}
}

// ShadowTarget creates a depth-only target for the shadow pass.
func ShadowTarget(backend Backend, extent Extent2D) *OffscreenTarget {
	depth := DepthTexture(backend, extent)
	handle := backend.CreateFramebuffer(0, depth.Handle)

	return &OffscreenTarget{
		framebuffer:  Framebuffer{Handle: handle, Extent: extent, VirtualExtent: extent},
		DepthTexture: &depth,
	}
}

// Frame bundles the render targets of one frame: the shadow buffer, the
// offscreen geometry buffer and the default framebuffer the result is
// presented to.
type Frame struct {
	ShadowBuffer   *OffscreenTarget
	GeometryBuffer *OffscreenTarget
	Default        *DefaultTarget
}

// FrameOption configures optional frame state.
type FrameOption func(*frameConfig)

type frameConfig struct {
	shadowExtent Extent2D
}

// WithShadowExtent overrides the default 512x512 shadow buffer. The extent
// also sizes the shadow frustum, so larger maps cover more of the world.
func WithShadowExtent(extent Extent2D) FrameOption {
	return func(c *frameConfig) {
		c.shadowExtent = extent
	}
}

// NewFrame builds the standard target set. Geometry renders offscreen at
// offscreenExtent and is blitted to the default framebuffer at extent.
func NewFrame(backend Backend, extent, offscreenExtent Extent2D, opts ...FrameOption) *Frame {
	config := frameConfig{shadowExtent: NewExtent2D(512, 512)}
	for _, opt := range opts {
		opt(&config)
	}

	defaultTarget := NewDefaultTarget(extent)
	defaultTarget.SetVirtualExtent(offscreenExtent)

	return &Frame{
		ShadowBuffer:   ShadowTarget(backend, config.shadowExtent),
		GeometryBuffer: GeometryTarget(backend, offscreenExtent),
		Default:        defaultTarget,
	}
}
