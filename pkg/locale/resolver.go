package locale

// Resolution is the outcome of resolving a request's locale.
type Resolution struct {
	// Locale is always a member of the resolver's set.
	Locale string

	// RedirectPath is the corrected path, or empty when the request path
	// already matches the prefix policy.
	RedirectPath string
}

// NeedsRedirect reports whether the request must be redirected.
func (r Resolution) NeedsRedirect() bool {
	return r.RedirectPath != ""
}

// Resolver determines the active locale of a request.
// It is stateless and safe for concurrent use.
type Resolver struct {
	set *Set
}

// NewResolver creates a resolver over the given locale set.
func NewResolver(set *Set) *Resolver {
	if set == nil {
		panic("locale: set is not provided")
	}
	return &Resolver{set: set}
}

// Set returns the resolver's locale set.
func (r *Resolver) Set() *Set {
	return r.set
}

// Resolve picks the locale for a request path given the raw value of the
// locale preference cookie (empty when absent) and the Accept-Language header.
//
// A supported path prefix is authoritative. A default-locale prefix is
// dropped with a redirect only when the unprefixed path would resolve to the
// default locale as well; otherwise the prefix is what selects the default
// for this request and is kept.
func (r *Resolver) Resolve(path, cookieValue, acceptLanguage string) Resolution {
	if path == "" {
		path = "/"
	}

	if loc, rest, ok := r.set.StripPrefix(path); ok {
		if r.set.IsDefault(loc) && r.Detect(cookieValue, acceptLanguage) == loc {
			return Resolution{Locale: loc, RedirectPath: rest}
		}
		return Resolution{Locale: loc}
	}

	loc := r.Detect(cookieValue, acceptLanguage)
	if r.set.IsDefault(loc) {
		return Resolution{Locale: loc}
	}
	return Resolution{Locale: loc, RedirectPath: r.set.Localize(path, loc)}
}

// Detect applies the cookie, header and default steps of the precedence
// chain, ignoring the path.
func (r *Resolver) Detect(cookieValue, acceptLanguage string) string {
	if loc, ok := r.set.Match(cookieValue); ok {
		return loc
	}
	if loc, ok := r.set.Match(PrimaryLanguage(acceptLanguage)); ok {
		return loc
	}
	return r.set.Default()
}
