/*
Package dsl provides a fluent Go API for declaring function chains in code.

It is an alternative to chain files for tests, demos and chains generated at run time.
Build validates the chain the same way the engine does and returns a loader.

Example usage:

	b := dsl.New().Initial(2)

	b.Add("F1").Equation("x^2").Entry().
		Then("F2").Equation("2*x+4").
		Then("F3").Equation("x/2")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	eng, err := funchain.New("", funchain.WithLoader(loader))
*/
package dsl
