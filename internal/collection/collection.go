package collection

import "github.com/google/uuid"

// TestCollection is a named group of test classes that share scheduling scope.
// Values are created by a Registry only; two classes are in the same collection
// when Get returns the same pointer for both.
type TestCollection struct {
	displayName string
	id          uuid.UUID
	assemblyID  string
}

// DisplayName returns the collection name.
func (c *TestCollection) DisplayName() string { return c.displayName }

// ID returns the identity token of the collection.
func (c *TestCollection) ID() uuid.UUID { return c.id }

// AssemblyID returns the identity of the test suite the collection belongs to.
func (c *TestCollection) AssemblyID() string { return c.assemblyID }

func (c *TestCollection) String() string { return c.displayName }

// Identity returns the identity token for a collection name within an assembly.
// The token only depends on its inputs, so a worker process and the coordinator
// derive the same value for the same collection.
func Identity(assemblyID, displayName string) uuid.UUID {
	return nameIdentity(assemblyNamespace(assemblyID), displayName)
}

func nameIdentity(namespace uuid.UUID, displayName string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(displayName))
}

func assemblyNamespace(assemblyID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tcr:assembly:"+assemblyID))
}
