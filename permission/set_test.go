package permission

import "testing"

func TestSetAlgebraLaws(t *testing.T) {
	sets := []Set{
		0,
		None,
		Regular,
		Regular | OpenDoors,
		ITSupport | Admin,
		All(),
		Privileged(),
	}

	for _, a := range sets {
		for _, b := range sets {
			u := a.Union(b)
			if !u.Contains(a) || !u.Contains(b) {
				t.Fatalf("union %v of %v and %v does not contain both operands", u, a, b)
			}
			if a.Intersect(a) != a {
				t.Fatalf("intersect is not idempotent for %v", a)
			}
			if a.Union(b) != b.Union(a) {
				t.Fatalf("union not commutative for %v, %v", a, b)
			}
			if a.Difference(b).Intersect(b) != 0 {
				t.Fatalf("difference of %v and %v still overlaps %v", a, b, b)
			}
			if a.SymmetricDifference(b) != a.Union(b).Difference(a.Intersect(b)) {
				t.Fatalf("symmetric difference law broken for %v, %v", a, b)
			}
		}
	}
}

func TestPrivilegedExcludesNone(t *testing.T) {
	p := Privileged()
	if p.Contains(None) {
		t.Fatal("privileged set must not contain None")
	}
	for _, flag := range []Set{Regular, ITSupport, OpenDoors, Admin, SuperAdmin} {
		if !p.Contains(flag) {
			t.Fatalf("privileged set missing %v", flag)
		}
	}
	if All().Difference(p) != None {
		t.Fatalf("privileged differs from All by %v, want None", All().Difference(p))
	}
}

func TestFromBits(t *testing.T) {
	tests := []struct {
		name    string
		bits    uint8
		want    Set
		wantErr bool
	}{
		{"empty", 0, 0, false},
		{"none only", 1, None, false},
		{"regular", 2, Regular, false},
		{"all recognized", 0x3F, All(), false},
		{"bit six", 64, 0, true},
		{"bit seven", 128, 0, true},
		{"mixed valid and invalid", 0x42, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromBits(tc.bits)
			if tc.wantErr {
				if err != ErrUnknownBits {
					t.Fatalf("FromBits(%#x) error = %v, want ErrUnknownBits", tc.bits, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromBits(%#x) unexpected error: %v", tc.bits, err)
			}
			if got != tc.want {
				t.Fatalf("FromBits(%#x) = %v, want %v", tc.bits, got, tc.want)
			}
		})
	}
}

func TestBitsRoundTrip(t *testing.T) {
	for bits := 0; bits <= int(All().Bits()); bits++ {
		s, err := FromBits(uint8(bits))
		if err != nil {
			t.Fatalf("FromBits(%#x) rejected a recognized mask: %v", bits, err)
		}
		if s.Bits() != uint8(bits) {
			t.Fatalf("Bits() = %#x, want %#x", s.Bits(), bits)
		}
		if !s.Valid() {
			t.Fatalf("set %v built from recognized bits reported invalid", s)
		}
	}
}

func TestParseName(t *testing.T) {
	for _, entry := range names {
		got, err := ParseName(entry.name)
		if err != nil {
			t.Fatalf("ParseName(%q) failed: %v", entry.name, err)
		}
		if got != entry.flag {
			t.Fatalf("ParseName(%q) = %v, want %v", entry.name, got, entry.flag)
		}
	}
	if _, err := ParseName("root"); err != ErrUnknownName {
		t.Fatalf("ParseName(root) error = %v, want ErrUnknownName", err)
	}
}

func TestString(t *testing.T) {
	if got := (Regular | OpenDoors).String(); got != "regular|open_doors" {
		t.Fatalf("String() = %q", got)
	}
	if got := Set(0).String(); got != "(empty)" {
		t.Fatalf("String() of empty set = %q", got)
	}
}
