package render

import "github.com/softrast/softrast/fmath"

// PostProcessSettings drives the tone pass.
type PostProcessSettings struct {
	Enabled           bool
	ExposureEnabled   bool
	Exposure          float32
	ContrastEnabled   bool
	Contrast          float32
	SaturationEnabled bool
	Saturation        float32
	VignetteEnabled   bool
	VignetteStrength  float32
	VignettePower     float32
}

// DefaultPostProcessSettings returns the tone pass defaults: a slight
// exposure, contrast and saturation lift plus a soft vignette.
func DefaultPostProcessSettings() PostProcessSettings {
	return PostProcessSettings{
		Enabled:           true,
		ExposureEnabled:   true,
		Exposure:          1.05,
		ContrastEnabled:   true,
		Contrast:          1.05,
		SaturationEnabled: true,
		Saturation:        1.08,
		VignetteEnabled:   true,
		VignetteStrength:  0.25,
		VignettePower:     1.4,
	}
}

// RainSettings drives the rain streak overlay.
type RainSettings struct {
	Enabled           bool
	Intensity         float32
	StreakDensity     float32
	StreakLength      float32
	StreakSpeed       float32
	StreakProbability float32
	DepthWeight       float32
	DepthBias         float32
	Wind              float32
	Darken            float32
	Tint              fmath.Colour
}

// DefaultRainSettings returns the rain overlay defaults (disabled).
func DefaultRainSettings() RainSettings {
	return RainSettings{
		Intensity:         0.35,
		StreakDensity:     0.025,
		StreakLength:      0.2,
		StreakSpeed:       1.4,
		StreakProbability: 0.45,
		DepthWeight:       0.8,
		DepthBias:         0.1,
		Wind:              0.15,
		Darken:            0.35,
		Tint:              fmath.Colour{R: 0.6, G: 0.7, B: 0.8},
	}
}

// AdvancedSettings drives the combined effects pass. Every effect is gated
// individually; fog, depth of field and the mirror reflection read the
// z-buffer.
type AdvancedSettings struct {
	Enabled bool

	BloomEnabled   bool
	BloomThreshold float32
	BloomIntensity float32

	FilmGrainEnabled  bool
	FilmGrainStrength float32
	FilmGrainSpeed    float32

	MotionBlurEnabled  bool
	MotionBlurStrength float32

	FogEnabled bool
	FogColour  fmath.Colour
	FogStart   float32
	FogEnd     float32

	SSREnabled  bool
	SSRStrength float32

	DepthOfFieldEnabled bool
	DOFFocus            float32
	DOFRange            float32

	GodRaysEnabled   bool
	GodRaysStrength  float32
	GodRaysScreenPos fmath.Vec4
}

// DefaultAdvancedSettings returns the effects pass defaults: only bloom on.
func DefaultAdvancedSettings() AdvancedSettings {
	return AdvancedSettings{
		Enabled:            true,
		BloomEnabled:       true,
		BloomThreshold:     0.75,
		BloomIntensity:     0.3,
		FilmGrainStrength:  0.03,
		FilmGrainSpeed:     1.0,
		MotionBlurStrength: 0.2,
		FogColour:          fmath.Colour{R: 0.65, G: 0.7, B: 0.8},
		FogStart:           0.35,
		FogEnd:             0.95,
		SSRStrength:        0.2,
		DOFFocus:           0.4,
		DOFRange:           0.25,
		GodRaysStrength:    0.2,
		GodRaysScreenPos:   fmath.Vec4{X: 0.5, Y: 0.2},
	}
}
