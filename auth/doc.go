// Package auth is the authentication and authorization core of the
// catalog backend: bcrypt credential hashing, JWT issuance and refresh,
// a closed set of request-authentication strategies, and a declarative
// role guard enforced per route.
//
// Strategies:
//   - Local verifies an email/password body and is used by POST /auth/local.
//   - Bearer verifies an access token from the Authorization header.
//   - Refresh verifies a refresh token and yields a principal whose only
//     role is the refreshjwt sentinel.
//   - Anonymous attempts Bearer verification but degrades to a sentinel
//     anonymous principal; whether a present-but-invalid token degrades
//     too or rejects the request is route policy, configured once at
//     startup.
//
// Each request is handled independently: strategies resolve a principal
// (or reject), RequireRoles compares the principal's role descriptor
// against the route's declared requirement, then the handler runs. Token
// verification is a pure function of the signing key and the token
// bytes; no state is shared across requests beyond the user store.
package auth
