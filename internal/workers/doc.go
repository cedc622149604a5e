// Package workers bounds how many expensive cryptographic operations run at once.
//
// RSA key generation and PBKDF2 derivation each take tens to hundreds of
// milliseconds of CPU. A Pool admits at most a fixed number of them at a
// time; further callers wait for a slot until their context is done or the
// queue timeout elapses.
//
// # Usage
//
//	pool := workers.NewPool(workers.Options{MaxConcurrent: 4})
//	kp, err := workers.Do(ctx, pool, func() (*secrets.KeyPair, error) {
//		return secrets.GenerateKeyPair()
//	})
//
// A nil *Pool runs work inline without bounding.
package workers
