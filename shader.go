package ombra

// locNone marks a uniform that is absent from a compiled shader variant.
const locNone int32 = -1

// UniformTable holds pre-resolved uniform locations for one compiled shader
// program. A negative location means the variant does not expose that uniform
// and the corresponding bind step is skipped.
type UniformTable struct {
	Model          int32
	Models         int32
	ModelIntr      int32
	View           int32
	Proj           int32
	NodeId         int32
	InstanceCount  int32
	Time           int32
	Extent         int32
	LightSpace     int32
	LightColor     int32
	LightDirection int32
	TexSampler     int32
	NormalSampler  int32
	ShadowSampler  int32
}

// NewUniformTable returns a table with every uniform marked absent.
func NewUniformTable() UniformTable {
	return UniformTable{
		Model:          locNone,
		Models:         locNone,
		ModelIntr:      locNone,
		View:           locNone,
		Proj:           locNone,
		NodeId:         locNone,
		InstanceCount:  locNone,
		Time:           locNone,
		Extent:         locNone,
		LightSpace:     locNone,
		LightColor:     locNone,
		LightDirection: locNone,
		TexSampler:     locNone,
		NormalSampler:  locNone,
		ShadowSampler:  locNone,
	}
}

// FeatureSet is a bitset of capabilities a shader variant opted into. It is
// derived from the uniform table so pass executors can branch on features
// without inspecting individual locations.
type FeatureSet uint32

const (
	FeatureExtent FeatureSet = 1 << iota
	FeatureTime
	FeatureSun
	FeatureShadow
	FeatureInstancing
	FeatureNodeId
	FeatureNormalMap
	FeatureModelIntr
)

func (f FeatureSet) Has(feature FeatureSet) bool {
	return f&feature != 0
}

func featuresOf(loc UniformTable) FeatureSet {
	var f FeatureSet
	if loc.Extent >= 0 {
		f |= FeatureExtent
	}
	if loc.Time >= 0 {
		f |= FeatureTime
	}
	if loc.LightColor >= 0 || loc.LightDirection >= 0 {
		f |= FeatureSun
	}
	if loc.ShadowSampler >= 0 || loc.LightSpace >= 0 {
		f |= FeatureShadow
	}
	if loc.Models >= 0 || loc.InstanceCount >= 0 {
		f |= FeatureInstancing
	}
	if loc.NodeId >= 0 {
		f |= FeatureNodeId
	}
	if loc.NormalSampler >= 0 {
		f |= FeatureNormalMap
	}
	if loc.ModelIntr >= 0 {
		f |= FeatureModelIntr
	}
	return f
}

// ShaderProgram is an opaque compiled program produced by the shader
// compilation layer: a GPU handle, its resolved uniform locations and the
// feature set those locations imply. The draw pipeline never compiles
// shaders itself.
type ShaderProgram struct {
	Handle   uint32
	Loc      UniformTable
	Features FeatureSet
}

func NewShaderProgram(handle uint32, loc UniformTable) ShaderProgram {
	return ShaderProgram{
		Handle:   handle,
		Loc:      loc,
		Features: featuresOf(loc),
	}
}
