// Package signer authenticates Bittrex v3 REST requests.
//
// Every request carries four headers derived from the credentials, the
// request URL, the method and the body:
//
//	Api-Timestamp     strictly increasing millisecond nonce
//	Api-Key           the API key
//	Api-Content-Hash  hex SHA-512 of the body
//	Api-Signature     hex HMAC-SHA512 of timestamp+url+method+content hash
//
// Sign a request directly with [Signer.Sign], or wrap a transport with
// [NewRoundTripper] so that every outgoing request is signed just before
// it is sent:
//
//	s := signer.New(signer.Credentials{Key: key, Secret: secret})
//	httpClient := &http.Client{Transport: signer.NewRoundTripper(s, http.DefaultTransport)}
package signer
