// Package config holds the immutable settings of the pandago SDK.
//
// A Config is built once at startup, either directly with New or from a config file and
// PANDAGO_* environment variables with Load, and is then shared read-only by the assertion
// signer, the token manager and the request pipeline. It derives the token endpoint, the
// assertion audience and the API base URL from the environment and country:
//
//	cfg, err := config.New(config.Options{
//	    ClientID:    "pandago:sg:00000000-0000-0000-0000-000000000000",
//	    KeyID:       "8a4cf0f6-b3a6-4d0c-9a5a-0c6ad3c1c5a7",
//	    Scope:       "pandago.api.sg.*",
//	    PrivateKey:  pemString,
//	    Environment: "sandbox",
//	})
//	if err != nil {
//	    log.Fatal(err) // *apierr.ConfigurationError
//	}
//
//	cfg.AuthURL()    // https://sts-st.deliveryhero.io/oauth2/token
//	cfg.APIBaseURL() // https://pandago-api-sandbox.deliveryhero.io/sg/api/v1
package config
