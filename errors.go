package grove

// TrainingError represents an error related with training a forest
type TrainingError string

/*
ErrConfiguration is the error returned by Train when the configuration
of the trainer is invalid or incomplete. Training never starts.
*/
const ErrConfiguration = TrainingError("invalid training configuration")

/*
ErrEmptyDataset is the error returned by Train when the training set
resolved for a tree has no examples.
*/
const ErrEmptyDataset = TrainingError("empty training set")

/*
ErrCapability is the error reported when a feature generator or a
statistics estimator does not provide a usable result for a node: no
candidate features, unusable responses or unscorable splits. It is never
returned by Train, the affected node becomes a leaf instead.
*/
const ErrCapability = TrainingError("capability shortfall")

/*
ErrProvider is the error returned by Train when the provider fails to
supply the training set for a tree or supplies an invalid one.
*/
const ErrProvider = TrainingError("provider failed to supply training set")

func (te TrainingError) Error() string {
	return string(te)
}
