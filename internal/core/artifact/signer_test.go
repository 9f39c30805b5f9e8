package artifact

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/adapters/driven/npntcrypto"
)

// Test fixtures are produced by an in-test signer that mirrors the
// issuing authority's protocol: canonicalize the payload, embed its
// digest in SignedInfo, sign the canonicalized SignedInfo digest.

const xmlDecl = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// defaultPayload runs from the UAPermission open tag to just before the
// Signature element. Self-closing elements exercise the canonicalizer.
const defaultPayload = `<UAPermission>
  <Permission>
    <Owner ownerId="OWNER-42"/>
    <Pilot uaplNo="UAPL-7"/>
    <UADetails uinNo="UIN-1401"/>
    <FlightPurpose shortDesc="powerline survey"/>
    <FlightParameters adcNumber="ADC-9" ficNumber="FIC-3" maxAltitude="120.5" flightStartTime="2020-01-15T10:00:00" flightEndTime="2020-01-15T12:30:00">
      <Coordinates>
        <Coordinate latitude="12.9716" longitude="77.5946"/>
        <Coordinate latitude="12.9726" longitude="77.5956"/>
        <Coordinate latitude="12.9736" longitude="77.5946"/>
      </Coordinates>
    </FlightParameters>
  </Permission>
  `

// defaultTrailer is the document content after the Signature close tag; it
// is part of the signed payload, digested verbatim.
const defaultTrailer = "\n</UAPermission>\n"

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

// signedTestArtifact builds a validly signed permission artifact from a
// payload (starting at "<UAPermission>") and trailer (everything after
// "</Signature>").
func signedTestArtifact(t *testing.T, key *rsa.PrivateKey, payload, trailer string) []byte {
	t.Helper()

	// Payload digest: canonicalized payload plus the trailer verbatim.
	acc := npntcrypto.NewSHA1()
	if err := canonicalizeInto(acc, []byte(payload)); err != nil {
		t.Fatalf("canonicalize payload: %v", err)
	}
	acc.Update([]byte(trailer))
	digestB64 := base64.StdEncoding.EncodeToString(acc.Sum())

	// SignedInfo body: from just after <SignedInfo> up to <SignatureValue,
	// including the close tag and trailing indentation.
	signedInfoBody := `
    <CanonicalizationMethod Algorithm="http://www.w3.org/TR/2001/REC-xml-c14n-20010315"/>
    <SignatureMethod Algorithm="http://www.w3.org/2000/09/xmldsig#rsa-sha1"/>
    <Reference URI="">
      <Transforms>
        <Transform Algorithm="http://www.w3.org/2000/09/xmldsig#enveloped-signature"/>
      </Transforms>
      <DigestMethod Algorithm="http://www.w3.org/2000/09/xmldsig#sha1"/>
      <DigestValue>` + digestB64 + `</DigestValue>
    </Reference>
  </SignedInfo>
  `

	acc = npntcrypto.NewSHA1()
	acc.Update([]byte(signedInfoCanonicalOpen))
	if err := canonicalizeInto(acc, []byte(signedInfoBody)); err != nil {
		t.Fatalf("canonicalize SignedInfo: %v", err)
	}
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, acc.Sum())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sigB64 := base64.StdEncoding.EncodeToString(signature)

	doc := xmlDecl + payload +
		`<Signature xmlns="http://www.w3.org/2000/09/xmldsig#">
  <SignedInfo>` + signedInfoBody + `<SignatureValue>` + sigB64 + `</SignatureValue>
  </Signature>` + trailer
	return []byte(doc)
}
