package toolchain

import (
	"fmt"
	"sort"
	"strings"
)

// TargetSelection identifies the platform triple artifacts are built for.
// Values are comparable and used as map keys wherever per-target state is
// tracked.
type TargetSelection string

const (
	X8664LinuxGNU   TargetSelection = "x86_64-unknown-linux-gnu"
	I686LinuxGNU    TargetSelection = "i686-unknown-linux-gnu"
	AArch64LinuxGNU TargetSelection = "aarch64-unknown-linux-gnu"
	ARMv7LinuxGNU   TargetSelection = "armv7-unknown-linux-gnueabihf"
	PPC64LELinuxGNU TargetSelection = "powerpc64le-unknown-linux-gnu"
	S390XLinuxGNU   TargetSelection = "s390x-unknown-linux-gnu"
	X8664Darwin     TargetSelection = "x86_64-apple-darwin"
	AArch64Darwin   TargetSelection = "aarch64-apple-darwin"
	X8664Windows    TargetSelection = "x86_64-pc-windows-msvc"
)

// Supported returns the full list of built-in target triples.
func Supported() []TargetSelection {
	return []TargetSelection{
		X8664LinuxGNU,
		I686LinuxGNU,
		AArch64LinuxGNU,
		ARMv7LinuxGNU,
		PPC64LELinuxGNU,
		S390XLinuxGNU,
		X8664Darwin,
		AArch64Darwin,
		X8664Windows,
	}
}

// IsValid reports whether t matches a supported target triple.
func (t TargetSelection) IsValid() bool {
	for _, known := range Supported() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the triple as string.
func (t TargetSelection) String() string {
	return string(t)
}

// Arch returns the leading architecture component of the triple.
func (t TargetSelection) Arch() string {
	triple := string(t)
	if i := strings.IndexByte(triple, '-'); i > 0 {
		return triple[:i]
	}
	return triple
}

// Parse returns the canonical TargetSelection for the provided string or an
// error if unsupported.
func Parse(value string) (TargetSelection, error) {
	if target := Normalize(value); target != "" {
		return target, nil
	}
	return "", fmt.Errorf("unsupported target %q (supported: %s)", value, strings.Join(supportedStrings(), ", "))
}

// MustParse is like Parse but panics on error.
func MustParse(value string) TargetSelection {
	target, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return target
}

// Normalize maps a possibly shorthand string into a canonical TargetSelection.
// Returns "" when the string cannot be normalized.
func Normalize(value string) TargetSelection {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case string(X8664LinuxGNU), "x86_64", "x86-64", "amd64":
		return X8664LinuxGNU
	case string(I686LinuxGNU), "i686", "i386", "x86", "386":
		return I686LinuxGNU
	case string(AArch64LinuxGNU), "aarch64", "arm64":
		return AArch64LinuxGNU
	case string(ARMv7LinuxGNU), "armv7", "arm", "armhf":
		return ARMv7LinuxGNU
	case string(PPC64LELinuxGNU), "ppc64le", "powerpc64le":
		return PPC64LELinuxGNU
	case string(S390XLinuxGNU), "s390x":
		return S390XLinuxGNU
	case string(X8664Darwin), "macos", "darwin":
		return X8664Darwin
	case string(AArch64Darwin), "macos-arm64", "darwin-arm64":
		return AArch64Darwin
	case string(X8664Windows), "windows", "win64":
		return X8664Windows
	default:
		return ""
	}
}

func supportedStrings() []string {
	all := Supported()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}
