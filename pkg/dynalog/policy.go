package dynalog

// Policy is a matcher-plus-configurator controlling a subset of sites.
// It is external to the engine: the engine only ever calls Match and
// Update, and never inspects a policy's internal state.
type Policy interface {
	// Match returns the subset of sites this policy wants to retain.
	// Must be pure and safe to call repeatedly with no side effects.
	Match(sites []*Site) []*Site

	// Update is called by the engine with disjoint subsets of a site
	// set: inserted (newly claimed by this policy), removed (no longer
	// claimed), and kept (still claimed, unaffected by this particular
	// transition). Implementations activate inserted and kept sites with
	// their desired sink and mask via Site.Activate, and deactivate
	// removed sites via Site.Deactivate.
	Update(inserted, removed, kept []*Site)
}
