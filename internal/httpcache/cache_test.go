package httpcache

import "testing"

func TestKeyIsStableForEqualPayloads(t *testing.T) {
	a := Key("scan", map[string]interface{}{"ingredients": []string{"milk", "egg"}})
	b := Key("scan", map[string]interface{}{"ingredients": []string{"milk", "egg"}})
	if a != b {
		t.Fatalf("expected stable key, got %q vs %q", a, b)
	}
}

func TestKeyDiffersForDifferentPayloads(t *testing.T) {
	a := Key("scan", map[string]interface{}{"ingredients": []string{"milk"}})
	b := Key("scan", map[string]interface{}{"ingredients": []string{"egg"}})
	if a == b {
		t.Fatal("expected different payloads to produce different keys")
	}
}

func TestNilCacheIsSafeNoOp(t *testing.T) {
	var c *Cache
	var dest map[string]string
	if c.Get(nil, "any", &dest) {
		t.Fatal("expected nil cache Get to always miss")
	}
	c.Set(nil, "any", map[string]string{"a": "b"})
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil cache Close to be a no-op, got %v", err)
	}
}

func TestNewWithEmptyAddrDisablesCache(t *testing.T) {
	c, err := New("", 0, nil)
	if err != nil || c != nil {
		t.Fatalf("expected (nil, nil) for empty addr, got (%v, %v)", c, err)
	}
}
