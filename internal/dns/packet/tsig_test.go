package packet

import "testing"

func TestSignTSIGThenVerifyTSIGSucceeds(t *testing.T) {
	secret := []byte("topsecretkeybytes")

	msg := &Message{
		Header:    Header{ID: 77, Response: true},
		Questions: []Question{{Name: "example.com.", Type: TypeA, Class: ClassIN}},
		Answers:   []Record{{Name: "example.com.", Type: TypeA, Class: ClassIN, TTL: 60, IP: mustParseIP("192.0.2.1")}},
	}

	buf := NewBuffer()
	if err := msg.Write(buf); err != nil {
		t.Fatalf("write message: %v", err)
	}

	tsigStart, err := SignTSIG(msg, buf, "key.example.", secret)
	if err != nil {
		t.Fatalf("SignTSIG: %v", err)
	}

	raw := buf.Bytes()
	if err := VerifyTSIG(msg, raw, tsigStart, secret); err != nil {
		t.Fatalf("VerifyTSIG rejected a correctly signed message: %v", err)
	}
}

func TestVerifyTSIGRejectsWrongSecret(t *testing.T) {
	msg := &Message{Header: Header{ID: 1, Response: true}}
	buf := NewBuffer()
	if err := msg.Write(buf); err != nil {
		t.Fatalf("write message: %v", err)
	}

	tsigStart, err := SignTSIG(msg, buf, "key.example.", []byte("correct-secret"))
	if err != nil {
		t.Fatalf("SignTSIG: %v", err)
	}

	if err := VerifyTSIG(msg, buf.Bytes(), tsigStart, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected VerifyTSIG to reject a MAC signed with a different secret")
	}
}
