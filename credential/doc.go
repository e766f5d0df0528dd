// Package credential stores and verifies the user passwords of an OCPP
// charge-station management backend.
//
// # Stored format
//
// [Encode] draws a 6-byte salt from crypto/rand, base64-encodes it, and
// hashes the salt *text* followed by the password with SHA-512:
//
//	<base64 salt>*<base64 SHA-512(salt text || password)>
//
// e.g. "q3Zr1H0x*hK7b…==". [Verify] accepts, in this order:
//
//   - "" for an empty password only;
//   - a value with no salt segment, compared as plain text;
//   - the salted SHA-512 above;
//   - the same hash computed with the literal salt text "System.Byte[]".
//     An earlier implementation issued such credentials by mistake. They
//     are still accepted but never produced.
//
// Verification never returns an error. A corrupt stored value and a wrong
// password both yield false.
//
// # Drivers
//
// [SaltedSHA512Hasher] wraps the codec behind the [Hasher] interface and
// lets callers refuse empty credentials. [BcryptHasher] and [Argon2idHasher]
// exist for deployments that re-enrol users onto a slower KDF. The [Manager]
// routes each stored value to its driver:
//
//	m, err := credential.NewDefaultManager() // sha512-salted default
//	if err != nil { log.Fatal(err) }
//
//	stored, _ := m.Make("Sup3rSecret!")
//	ok, fresh, _ := m.CheckAndRehash("Sup3rSecret!", stored)
//	if ok && fresh != "" {
//	    persist(userID, fresh)
//	}
package credential
