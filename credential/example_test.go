package credential_test

import (
	"fmt"
	"log"

	"github.com/hasbyte1/ocpp-credentials/credential"
)

func ExampleEncode() {
	stored, err := credential.Encode("Sup3rSecret!")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(credential.Verify(stored, "Sup3rSecret!"))
	fmt.Println(credential.Verify(stored, "sup3rsecret!"))
	// Output:
	// true
	// false
}

// ExampleMatch shows a credential issued by the old implementation, whose
// hash was computed with the "System.Byte[]" salt text.
func ExampleMatch() {
	const stored = "RERERERE*ZO/Cl4UEziClY7RPYCZHkl7ZwiwNx//BwIXHcW+LJ8sQvtcFXxcd9dRTC2SBBuIvSd06U7vT3WB6l5X6GajdiQ=="
	fmt.Println(credential.Match(stored, "pw"))
	fmt.Println(credential.Match("plainvalue", "plainvalue"))
	// Output:
	// legacy-salt
	// plain
}

func ExampleManager_CheckAndRehash() {
	m, err := credential.NewDefaultManager()
	if err != nil {
		log.Fatal(err)
	}

	// A password stored before salting was introduced.
	ok, fresh, err := m.CheckAndRehash("admin-pw", "admin-pw")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(ok, fresh != "", credential.Match(fresh, "admin-pw"))
	// Output: true true salted
}
