// Package testrunner prepares Jest invocations for component tests. Each
// supported Jest major line is a Variant; everything that differs between
// Jest versions is answered by the Adapter for the detected variant.
package testrunner

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Variant is one supported Jest major line.
type Variant uint8

const (
	// Jest24 covers Jest 24 through 26.
	Jest24 Variant = iota + 1
	Jest27
	Jest28
	Jest29
)

func (v Variant) String() string {
	switch v {
	case Jest24:
		return "jest24"
	case Jest27:
		return "jest27"
	case Jest28:
		return "jest28"
	case Jest29:
		return "jest29"
	}
	return "unknown"
}

const (
	RunnerJasmine = "jest-jasmine2"
	RunnerCircus  = "jest-circus"

	modulePrefix     = "@stencil/core/testing/"
	preprocessorPath = modulePrefix + "jest-preprocessor.js"
	setupHookPath    = modulePrefix + "jest-setuptestframework.js"
	environmentPath  = modulePrefix + "jest-environment.js"
)

// Preprocessor describes the Jest transformer for component sources.
type Preprocessor struct {
	Pattern string
	Module  string
}

// Preset is the Jest configuration used for component tests.
type Preset struct {
	TestEnvironment        string            `json:"testEnvironment"`
	TestRunner             string            `json:"testRunner"`
	Transform              map[string]string `json:"transform"`
	SetupFilesAfterEnv     []string          `json:"setupFilesAfterEnv"`
	ModuleFileExtensions   []string          `json:"moduleFileExtensions"`
	TestRegex              string            `json:"testRegex"`
	TestPathIgnorePatterns []string          `json:"testPathIgnorePatterns"`
	// Jest 28 removed testURL in favour of testEnvironmentOptions.url.
	TestURL                string            `json:"testURL,omitempty"`
	TestEnvironmentOptions map[string]string `json:"testEnvironmentOptions,omitempty"`
	MaxWorkers             int               `json:"maxWorkers,omitempty"`
}

// RunOptions selects what a test run does.
type RunOptions struct {
	Spec       bool
	E2E        bool
	CI         bool
	MaxWorkers int
	// Args are passed to Jest unchanged after the generated flags.
	Args []string
}

// Adapter answers the version-specific questions for one Variant.
type Adapter struct {
	variant Variant
	version string
}

// NewAdapter returns the adapter for v. version is informational.
func NewAdapter(v Variant, version string) (Adapter, error) {
	if v < Jest24 || v > Jest29 {
		return Adapter{}, fmt.Errorf("unknown jest variant %d", v)
	}
	return Adapter{variant: v, version: version}, nil
}

func (a Adapter) Variant() Variant { return a.variant }

// Version is the detected Jest version, if any.
func (a Adapter) Version() string { return a.version }

// DefaultRunner is jest-jasmine2 up to Jest 27 and jest-circus afterwards.
func (a Adapter) DefaultRunner() string {
	if a.variant <= Jest27 {
		return RunnerJasmine
	}
	return RunnerCircus
}

func (a Adapter) Preprocessor() Preprocessor {
	return Preprocessor{
		Pattern: `^.+\.(ts|tsx|jsx|css|mjs)$`,
		Module:  preprocessorPath,
	}
}

// SetupHook is the module registered in setupFilesAfterEnv.
func (a Adapter) SetupHook() string {
	return setupHookPath
}

func (a Adapter) Preset() Preset {
	pre := a.Preprocessor()
	p := Preset{
		TestEnvironment:      environmentPath,
		TestRunner:           a.DefaultRunner(),
		Transform:            map[string]string{pre.Pattern: pre.Module},
		SetupFilesAfterEnv:   []string{a.SetupHook()},
		ModuleFileExtensions: []string{"ts", "tsx", "js", "mjs", "jsx", "json", "d.ts"},
		TestRegex:            `(/__tests__/.*|\.?(test|spec|e2e))\.(tsx?|ts?|jsx?|mjs?)$`,
		TestPathIgnorePatterns: []string{
			"/.cache", "/.stencil", "/.vscode", "/dist", "/node_modules", "/www",
		},
	}
	if a.variant >= Jest28 {
		p.TestEnvironmentOptions = map[string]string{"url": "http://localhost"}
	} else {
		p.TestURL = "http://localhost"
	}
	return p
}

// CLIArgs returns the arguments passed to the Jest binary.
func (a Adapter) CLIArgs(opts RunOptions) ([]string, error) {
	preset := a.Preset()
	if opts.MaxWorkers > 0 {
		preset.MaxWorkers = opts.MaxWorkers
	}
	cfg, err := json.Marshal(preset)
	if err != nil {
		return nil, fmt.Errorf("encode jest config: %w", err)
	}
	args := []string{"--config", string(cfg)}
	if opts.CI {
		args = append(args, "--ci")
	}
	if opts.MaxWorkers > 0 {
		args = append(args, "--maxWorkers="+strconv.Itoa(opts.MaxWorkers))
	}
	return append(args, opts.Args...), nil
}

// Env returns base extended with the variables the preprocessor and setup
// hook read.
func (a Adapter) Env(base []string, opts RunOptions) []string {
	spec, e2e := opts.Spec, opts.E2E
	if !spec && !e2e {
		spec = true
	}
	env := append([]string(nil), base...)
	env = append(env,
		"__STENCIL_SPEC_TESTS__="+strconv.FormatBool(spec),
		"__STENCIL_E2E_TESTS__="+strconv.FormatBool(e2e),
		"__STENCIL_JEST_VARIANT__="+a.variant.String(),
	)
	if opts.CI {
		env = append(env, "CI=true")
	}
	return env
}
