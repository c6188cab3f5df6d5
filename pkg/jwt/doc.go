// Package jwt provides JSON Web Token utilities for the Feast API.
//
// The jwt package handles RS256 token signing, validation, and claims
// extraction for authentication.
//
// # Setup
//
// The service loads an RSA key pair from disk:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    PublicKeyPath:  "keys/public.pem",
//	    Issuer:         "feast-api",
//	    ExpirationMins: 15,
//	})
//
// Validation-only deployments may omit the private key path.
//
// # Signing
//
// Sign claims for an authenticated user:
//
//	token, err := service.Sign(jwt.Claims{
//	    Subject:  user.ID,
//	    UserID:   user.ID,
//	    Email:    user.Email,
//	    Username: user.Username,
//	    Role:     string(user.Role),
//	})
//
// # Validation
//
// Validate a token and extract its claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// # Testing
//
// NewTestService builds a service from an in-memory key, skipping
// the filesystem:
//
//	key, _ := rsa.GenerateKey(rand.Reader, 2048)
//	service := jwt.NewTestService(key, "test-issuer", time.Hour)
package jwt
