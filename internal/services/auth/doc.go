// Package auth owns back-office identity checks.
//
// It issues and verifies the signed session tokens carried by the admin
// cookie or an Authorization bearer header, hashes passwords, and gates
// routes on a minimum role. Role checks always consult the live role of the
// user so that a demotion takes effect on the next request.
package auth
