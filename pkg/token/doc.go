// Package token signs session payloads as HS256 JSON Web Tokens.
//
// [Signer] implements session.Signer on top of github.com/golang-jwt/jwt/v5.
// Only HS256 is accepted on verification, tokens without an "exp" claim are
// rejected, and the secret must be at least [MinSecretLength] bytes.
//
//	signer, err := token.NewSigner([]byte(cfg.AuthSecret), token.WithIssuer("saasgate"))
//	if err != nil {
//	    return err
//	}
//	raw, err := signer.Sign(ctx, session.NewPayload(userID, time.Now().Add(24*time.Hour)))
package token
