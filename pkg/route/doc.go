// Package route labels request paths for the gate.
//
// A [Classifier] decides whether a path is protected, meaning it requires a
// valid session. Locale prefixes are stripped with the shared
// [locale.Set.StripPrefix] rule before matching, so "/dashboard" and
// "/es/dashboard/general" are both protected.
//
// A [Matcher] decides which paths bypass the gate altogether: API routes,
// static assets and infrastructure endpoints. Its prefix list is built once
// at startup and never changes.
//
//	set := locale.MustNewSet("en", "es")
//	cls := route.NewClassifier(set, route.WithProtectedPrefix("/dashboard"))
//	cls.IsProtected("/es/dashboard") // true
//
//	m := route.NewMatcher(route.DefaultExcluded...)
//	m.Excluded("/api/user") // true
//
// Both types match whole path segments: "/dashboard" protects
// "/dashboard/team" but not "/dashboards".
package route
