package domain

// Attribute is a piece of declared metadata found on a test class,
// e.g. #[Collection('Database')] or a "@collection Database" docblock tag.
type Attribute struct {
	Name string   // Attribute name without namespace, e.g. "Collection"
	Args []string // Raw argument literals as written in source
	Line int      // 1-based line the attribute was declared on
}

// TestClass is a test-bearing class found during discovery.
type TestClass struct {
	Name       string      // Fully-qualified class name, e.g. App\Tests\UserTest
	FilePath   string      // File that declares the class
	Attributes []Attribute // Declared metadata, in source order
	TestCases  []string    // Test method names, sorted
}

// Attribute returns the first attribute with the given name.
func (c TestClass) Attribute(name string) (Attribute, bool) {
	for _, attr := range c.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}
