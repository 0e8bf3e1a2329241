// Package nbns tests for the NODE STATUS codec.
package nbns

import (
	"bytes"
	"testing"
)

func TestBuildQuery_Size(t *testing.T) {
	req := BuildQuery()
	if len(req) != QuerySize {
		t.Fatalf("Expected %d bytes, got %d", QuerySize, len(req))
	}
}

func TestBuildQuery_Layout(t *testing.T) {
	req := BuildQuery()

	// QDCOUNT (bytes 4-5) = 1
	if req[4] != 0x00 || req[5] != 0x01 {
		t.Errorf("Unexpected QDCOUNT: %02X%02X", req[4], req[5])
	}

	// Encoded name length (byte 12) = 32
	if req[12] != 32 {
		t.Errorf("Expected encoded name length 32, got %d", req[12])
	}

	// The wildcard name '*' (0x2A) encodes as 'C','K'; the 15 trailing NULs
	// encode as 'A','A' pairs.
	if req[13] != 'C' || req[14] != 'K' {
		t.Errorf("Wildcard encoding wrong: got %c%c, expected CK", req[13], req[14])
	}
	if !bytes.Equal(req[15:45], bytes.Repeat([]byte{'A'}, 30)) {
		t.Errorf("Padding encoding wrong: % X", req[15:45])
	}
	if req[45] != 0 {
		t.Errorf("Expected null terminator at byte 45, got %02X", req[45])
	}

	// QTYPE = NBSTAT (0x0021), QCLASS = IN (0x0001)
	if req[46] != 0x00 || req[47] != 0x21 {
		t.Errorf("Unexpected QTYPE: %02X%02X", req[46], req[47])
	}
	if req[48] != 0x00 || req[49] != 0x01 {
		t.Errorf("Unexpected QCLASS: %02X%02X", req[48], req[49])
	}
}

// buildResponse assembles a NODE STATUS response for a request of reqLen
// bytes: echoed request + TTL + data size + name count + records (+ MAC).
func buildResponse(reqLen int, records [][18]byte, mac []byte) []byte {
	resp := make([]byte, reqLen+4) // echoed request + TTL
	dataSize := len(records) * 18
	resp = append(resp, byte(dataSize>>8), byte(dataSize))
	resp = append(resp, byte(len(records)))
	for _, rec := range records {
		resp = append(resp, rec[:]...)
	}
	resp = append(resp, mac...)
	return resp
}

func record(name string, service, flags byte) [18]byte {
	var rec [18]byte
	copy(rec[:], name)
	for i := len(name); i < 15; i++ {
		rec[i] = ' ' // trailing space padding
	}
	rec[15] = service
	rec[16] = flags
	return rec
}

func TestParseResponse_SingleName(t *testing.T) {
	reqLen := QuerySize
	mac := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	resp := buildResponse(reqLen, [][18]byte{record("TESTPC", 0x00, 0x04)}, mac)

	answers, err := ParseResponse(resp, reqLen)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("Expected 2 answers (name + MAC), got %d", len(answers))
	}
	if answers[0].Kind != Unique || answers[0].Name != "TESTPC" || answers[0].Service != 0x00 {
		t.Errorf("Unexpected first answer: %+v", answers[0])
	}
	if answers[1].Kind != MacAddress || !bytes.Equal(answers[1].MAC, mac) {
		t.Errorf("Unexpected MAC answer: %+v", answers[1])
	}
}

func TestParseResponse_FlagClassification(t *testing.T) {
	tests := []struct {
		name  string
		flags byte
		want  AnswerKind
	}{
		{"unique", 0x00, Unique},
		{"unique active", 0x04, Unique},
		{"group", 0x80, Group},
		{"group active", 0x84, Group},
		{"permanent", 0x02, Permanent},
		{"permanent group", 0x82, PermanentGroup},
		{"permanent group active", 0x86, PermanentGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := buildResponse(QuerySize, [][18]byte{record("HOST", 0x20, tt.flags)}, nil)
			answers, err := ParseResponse(resp, QuerySize)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if answers[0].Kind != tt.want {
				t.Errorf("flags 0x%02X classified as %v, want %v", tt.flags, answers[0].Kind, tt.want)
			}
		})
	}
}

func TestParseResponse_PaddingDropped(t *testing.T) {
	// Space padding and NUL bytes are dropped from the name, not
	// substituted.
	var rec [18]byte
	copy(rec[:], "PC\x00\x01 1")
	resp := buildResponse(QuerySize, [][18]byte{rec}, nil)

	answers, err := ParseResponse(resp, QuerySize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answers[0].Name != "PC1" {
		t.Errorf("Name = %q, want %q", answers[0].Name, "PC1")
	}
}

func TestParseResponse_TooShort(t *testing.T) {
	short := make([]byte, QuerySize+minResponseSize-1)
	if _, err := ParseResponse(short, QuerySize); err == nil {
		t.Error("Expected error for short response")
	}
}

func TestParseResponse_ZeroNames(t *testing.T) {
	resp := buildResponse(QuerySize, nil, nil)
	// Pad beyond the minimum size so only the zero count triggers the error.
	resp = append(resp, make([]byte, 64)...)

	if _, err := ParseResponse(resp, QuerySize); err == nil {
		t.Error("Expected error for zero name count")
	}
}

func TestParseResponse_TruncatedRecords(t *testing.T) {
	// Declared count 2 but only one full record present: must fail rather
	// than return the one decodable name.
	resp := buildResponse(QuerySize, [][18]byte{record("ONLYONE", 0x00, 0x00)}, nil)
	resp = append(resp, make([]byte, 10)...) // past the minimum, still short of two records
	resp[QuerySize+4] = 0
	resp[QuerySize+5] = 36 // claim two records worth of data
	resp[QuerySize+6] = 2  // name count

	if _, err := ParseResponse(resp, QuerySize); err != ErrInvalidResponse {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestParseResponse_NoMAC(t *testing.T) {
	// A response ending right after the name table still decodes the names.
	resp := buildResponse(QuerySize, [][18]byte{
		record("WORKSTATION", 0x00, 0x04),
		record("WORKGROUP", 0x00, 0x84),
	}, nil)

	answers, err := ParseResponse(resp, QuerySize)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("Expected 2 answers, got %d", len(answers))
	}
	for _, a := range answers {
		if a.Kind == MacAddress {
			t.Error("Unexpected MAC answer in MAC-less response")
		}
	}
}

func TestServiceDescription(t *testing.T) {
	tests := []struct {
		service  byte
		expected string
	}{
		{0x00, "Workstation"},
		{0x03, "Messenger"},
		{0x1B, "Domain Master Browser"},
		{0x20, "File Server"},
		{0x99, "Unknown"},
	}
	for _, tt := range tests {
		if got := ServiceDescription(tt.service); got != tt.expected {
			t.Errorf("ServiceDescription(0x%02X) = %q, want %q", tt.service, got, tt.expected)
		}
	}
}

func BenchmarkBuildQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = BuildQuery()
	}
}

func BenchmarkParseResponse(b *testing.B) {
	resp := buildResponse(QuerySize, [][18]byte{
		record("TESTPC", 0x00, 0x04),
		record("WORKGROUP", 0x00, 0x84),
	}, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseResponse(resp, QuerySize)
	}
}
