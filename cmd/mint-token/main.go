package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	tokenx "github.com/bionicotaku/lingo-utils-tokenx"
)

func main() {
	audience := flag.String("audience", "", "Audience claim; omitted when empty")
	subject := flag.String("subject", "", "Subject claim; default jdoe when empty")
	subjectClaim := flag.String("subject-claim", "", "Claim key holding the subject; default sub")
	scopes := flag.String("scopes", "", "Comma-separated scope list; single scope stays a string; default engineering")
	scopeClaim := flag.String("scope-claim", "", "Claim key holding the scope; default scope")
	ttl := flag.Duration("ttl", time.Minute, "Token lifetime from now; negative mints an already-expired token")
	kid := flag.String("kid", "", "Key id for the generated key; default key-1")
	randomKID := flag.Bool("random-kid", false, "Use a random key id instead of key-1")
	jwtID := flag.String("jti", "", "Token id claim; omitted when empty")
	printJWKS := flag.Bool("jwks", true, "Also print the public JWKS for verifier configuration")
	flag.Parse()

	builder, err := tokenx.NewBuilder()
	if err != nil {
		log.Fatalf("create builder: %v", err)
	}

	if *kid != "" || *randomKID {
		id := *kid
		if *randomKID {
			id = tokenx.RandomKeyID()
		}
		key := builder.Key()
		raw, err := key.RSAPrivateKey()
		if err != nil {
			log.Fatalf("extract key: %v", err)
		}
		rekeyed, err := tokenx.NewSigningKeyFromRSA(raw, id)
		if err != nil {
			log.Fatalf("rekey: %v", err)
		}
		builder.SetKey(rekeyed)
	}

	if *audience != "" {
		builder.SetAudience(*audience)
	}
	if *subject != "" {
		builder.SetSubject(*subject)
	}
	if *subjectClaim != "" {
		builder.SetSubjectClaimName(*subjectClaim)
	}
	if *scopeClaim != "" {
		builder.SetScopeClaimName(*scopeClaim)
	}
	if *scopes != "" {
		parts := strings.Split(*scopes, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) == 1 {
			builder.SetScope(parts[0])
		} else {
			builder.SetScopes(parts...)
		}
	}
	if *jwtID != "" {
		builder.SetJWTID(*jwtID)
	}

	now := time.Now().Unix()
	builder.SetIssuedAt(now)
	builder.SetExpiration(now + int64(ttl.Seconds()))

	token, err := builder.Build()
	if err != nil {
		log.Fatalf("build token: %v", err)
	}
	fmt.Println(token)

	if *printJWKS {
		set, err := builder.Key().PublicSet()
		if err != nil {
			log.Fatalf("public jwks: %v", err)
		}
		payload, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			log.Fatalf("encode jwks: %v", err)
		}
		fmt.Println(string(payload))
	}
}
