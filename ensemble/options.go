package ensemble

// Option is a function that configures BaggingClassifier
type Option func(*BaggingClassifier)

// WithNEstimators sets the ensemble size m
func WithNEstimators(n int) Option {
	return func(b *BaggingClassifier) {
		b.nEstimators = n
	}
}

// WithCriterion sets the split criterion shared by every member tree
func WithCriterion(criterion string) Option {
	return func(b *BaggingClassifier) {
		b.criterion = criterion
	}
}

// WithMaxDepth sets the maximum depth of every member tree. Negative means unlimited.
func WithMaxDepth(depth int) Option {
	return func(b *BaggingClassifier) {
		b.maxDepth = depth
	}
}

// WithMinSamplesSplit sets min_samples_split for every member tree
func WithMinSamplesSplit(n int) Option {
	return func(b *BaggingClassifier) {
		b.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets min_samples_leaf for every member tree
func WithMinSamplesLeaf(n int) Option {
	return func(b *BaggingClassifier) {
		b.minSamplesLeaf = n
	}
}

// WithSeed fixes the bootstrap resampling seed, making training reproducible.
func WithSeed(seed uint64) Option {
	return func(b *BaggingClassifier) {
		b.seeded = true
		b.seed = seed
	}
}

// WithNJobs sets the number of goroutines fitting members concurrently.
// Values <= 1 train sequentially. Resample indices are always drawn before
// any fit starts, so the fitted model is identical either way.
func WithNJobs(n int) Option {
	return func(b *BaggingClassifier) {
		b.nJobs = n
	}
}

// WithOOBScore enables the out-of-bag accuracy estimate during Fit.
func WithOOBScore(enabled bool) Option {
	return func(b *BaggingClassifier) {
		b.oobScore = enabled
	}
}
