package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"tcr/internal/collection"
	"tcr/internal/domain"
)

// ClassParser extracts test classes from a test file
type ClassParser interface {
	ParseClasses(filePath string) ([]domain.TestClass, error)
}

// Group is a collection together with the classes assigned to it
type Group struct {
	Collection *collection.TestCollection
	Classes    []domain.TestClass
}

// Plan is the outcome of a discovery session
type Plan struct {
	AssemblyID string
	Groups     []Group
}

// ClassCount returns the number of classes across all groups
func (p *Plan) ClassCount() int {
	var n int
	for _, g := range p.Groups {
		n += len(g.Classes)
	}
	return n
}

// Files returns the distinct files that declare the planned classes
func (p *Plan) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, g := range p.Groups {
		for _, c := range g.Classes {
			if !seen[c.FilePath] {
				seen[c.FilePath] = true
				files = append(files, c.FilePath)
			}
		}
	}
	sort.Strings(files)
	return files
}

// Session assigns the classes of one test suite to collections.
// A Session owns its registry; create a new one per discovery run.
type Session struct {
	registry *collection.Registry
	parser   ClassParser
	workers  int
}

// NewSession creates a Session that parses files with up to workers goroutines
func NewSession(registry *collection.Registry, parser ClassParser, workers int) *Session {
	if workers <= 0 {
		workers = 1
	}
	return &Session{registry: registry, parser: parser, workers: workers}
}

// Registry returns the registry the session assigns collections from
func (s *Session) Registry() *collection.Registry {
	return s.registry
}

// Discover parses files concurrently and groups their classes by collection.
// Files or classes that fail are reported in the returned error; the plan
// still holds everything that was assigned.
func (s *Session) Discover(ctx context.Context, files []string) (*Plan, error) {
	fileQueue := make(chan string, len(files))
	for _, f := range files {
		fileQueue <- f
	}
	close(fileQueue)

	var (
		mu      sync.Mutex
		members = make(map[*collection.TestCollection][]domain.TestClass)
		errs    []error
	)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileQueue {
				if ctx.Err() != nil {
					return
				}
				classes, err := s.parser.ParseClasses(file)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					continue
				}
				for _, class := range classes {
					c, err := s.registry.Get(class)
					mu.Lock()
					if err != nil {
						errs = append(errs, fmt.Errorf("%s: %w", file, err))
					} else {
						members[c] = append(members[c], class)
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	plan := &Plan{AssemblyID: s.registry.AssemblyID()}
	for _, c := range s.registry.Collections() {
		classes, ok := members[c]
		if !ok {
			continue
		}
		sort.Slice(classes, func(i, j int) bool {
			if classes[i].Name == classes[j].Name {
				return classes[i].FilePath < classes[j].FilePath
			}
			return classes[i].Name < classes[j].Name
		})
		plan.Groups = append(plan.Groups, Group{Collection: c, Classes: classes})
	}

	return plan, errors.Join(errs...)
}
