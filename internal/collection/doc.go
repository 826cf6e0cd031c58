// Package collection partitions discovered test classes into test collections.
//
// A collection is the unit of scheduling handed to the execution engine: classes
// in the same collection run one after another on a single worker, different
// collections may run concurrently.
//
// Every class resolves to a collection name. A class that declares a name
// (#[Collection('Database')] or "@collection Database") uses it verbatim; any
// other class gets "Test collection for <fully-qualified class name>". Declared
// and default names share one flat namespace, so a declared name that equals
// another class's default name places both classes in the same collection.
//
// A Registry is scoped to one discovery session over one test suite root:
//
//	reg, err := collection.NewRegistry(root, collection.NewResolver(collection.AttributeLookup{}))
//	c, err := reg.Get(class)
//
// Get is safe for concurrent use and returns the same *TestCollection for every
// class that resolves to the same name.
package collection
