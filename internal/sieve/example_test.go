package sieve

import "fmt"

// ExampleNew demonstrates running a sieve and extracting its primes.
func ExampleNew() {
	s, err := New(30, SequentialMarker{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if err := s.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(s.Primes())
	fmt.Println(s.IsCandidate(1), s.IsCandidate(9))
	// Output:
	// [2 3 5 7 11 13 17 19 23 29]
	// true false
}

// ExampleDefaultFactory demonstrates selecting a strategy by name.
func ExampleDefaultFactory() {
	factory := NewDefaultFactory(0)
	fmt.Println(factory.List())

	marker, err := factory.Get("parallel")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	s, _ := New(100, marker)
	_ = s.Run()
	fmt.Println(s.Count())
	// Output:
	// [parallel sequential spawn]
	// 25
}
