package toolchain

import "testing"

func TestParseNormalizesShorthand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want TargetSelection
	}{
		{"x86_64", X8664LinuxGNU},
		{"amd64", X8664LinuxGNU},
		{" ARM64 ", AArch64LinuxGNU},
		{"s390x", S390XLinuxGNU},
		{"x86_64-unknown-linux-gnu", X8664LinuxGNU},
		{"darwin", X8664Darwin},
		{"win64", X8664Windows},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsUnknownTarget(t *testing.T) {
	t.Parallel()

	if _, err := Parse("vax-unknown-vms"); err == nil {
		t.Fatal("Parse should reject an unknown target")
	}
}

func TestSupportedTargetsAreValid(t *testing.T) {
	t.Parallel()

	for _, target := range Supported() {
		if !target.IsValid() {
			t.Fatalf("supported target %q reported invalid", target)
		}
	}
	if TargetSelection("pdp11").IsValid() {
		t.Fatal("unknown target reported valid")
	}
}

func TestArchComponent(t *testing.T) {
	t.Parallel()

	if got := AArch64LinuxGNU.Arch(); got != "aarch64" {
		t.Fatalf("Arch() = %q, want aarch64", got)
	}
}

func TestBootstrapCompilerIdentity(t *testing.T) {
	t.Parallel()

	compiler := Bootstrap(X8664LinuxGNU)
	if compiler.Stage != 0 {
		t.Fatalf("Bootstrap stage = %d, want 0", compiler.Stage)
	}
	if got, want := compiler.String(), "stage0/x86_64-unknown-linux-gnu"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
