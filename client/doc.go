// Package client is the authenticated request pipeline for the pandago API.
//
// Every call obtains a bearer token from a TokenSource, sends the request through the injected
// transport and turns non-2xx responses into *apierr.RequestError values carrying the status
// code, the parsed upstream message, the raw response data and the request context. A 401
// response drops the cached token when the source supports it.
//
//	tm, _ := oauth2client.NewTokenManager(cfg)
//	c, err := client.New(cfg, tm, client.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var order orders.Order
//	err = c.DoJSON(ctx, http.MethodGet, "/orders/"+id, nil, &order)
//	if err != nil {
//	    fmt.Println(apierr.Describe(err))
//	}
package client
