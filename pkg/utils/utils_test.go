package utils

import "testing"

func TestFingerprintStable(t *testing.T) {
	type request struct {
		Name  string         `json:"name"`
		Count int            `json:"count"`
		Tags  map[string]int `json:"tags"`
	}

	a := request{Name: "THE-TFU", Count: 3, Tags: map[string]int{"x": 1, "y": 2}}
	b := request{Name: "THE-TFU", Count: 3, Tags: map[string]int{"y": 2, "x": 1}}

	fpA, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fpB, err := Fingerprint(b)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	// map key 顺序不影响指纹
	if fpA != fpB {
		t.Errorf("fingerprints differ for equal content: %s vs %s", fpA, fpB)
	}

	// SHA-256 十六进制编码长度
	if len(fpA) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(fpA))
	}
	c := a
	c.Count = 4
	fpC, err := Fingerprint(c)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fpC == fpA {
		t.Error("different content should produce different fingerprints")
	}
}
