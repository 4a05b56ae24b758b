package internal

import "testing"

func TestScanOptions_Validate(t *testing.T) {
	o := ScanOptions{}
	if err := o.Validate(); err == nil {
		t.Fatal("expected error when no pattern source given")
	}
	o.Pattern = "foo"
	o.PatternFile = "p.txt"
	if err := o.Validate(); err == nil {
		t.Fatal("expected error when both pattern sources given")
	}
	o.PatternFile = ""
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	o = ScanOptions{PatternFile: "p.txt"}
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestScanOptions_PrepareAndAllowedExt(t *testing.T) {
	o := ScanOptions{
		Pattern:   "x",
		Whitelist: []string{".txt", ".log"},
		Blacklist: []string{".bin"},
	}
	o.Prepare()
	if o.Threads <= 0 {
		t.Fatal("Prepare must set a positive thread default")
	}
	if !o.allowedExt(".txt") || !o.allowedExt(".log") {
		t.Fatal("whitelist must allow listed ext")
	}
	if o.allowedExt(".bin") {
		t.Fatal("whitelist must ignore blacklist entirely")
	}

	// no whitelist - blacklist only
	o = ScanOptions{Pattern: "x", Blacklist: []string{".tmp", ".bin"}}
	o.Prepare()
	if o.allowedExt(".tmp") || o.allowedExt(".bin") {
		t.Fatal("blacklist must block ext")
	}
	if !o.allowedExt(".txt") {
		t.Fatal("non-blacklisted ext must pass")
	}
}

func TestScanOptions_PatternTexts(t *testing.T) {
	o := ScanOptions{Pattern: "find me"}
	texts, err := o.PatternTexts()
	if err != nil || len(texts) != 1 || texts[0] != "find me" {
		t.Fatalf("literal pattern: %v %v", texts, err)
	}
}
