package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/dash/lang"
)

func ExampleParse() {
	prog, err := lang.Parse(context.Background(), `let x = (1 + 2) * 3; print x`)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(prog.Statements))
	fmt.Println(prog)
	// Output:
	// 2
	// let x = (1 + 2) * 3; print x
}

func ExampleEvaluate() {
	src := `
fn fact(n) {
  if n <= 1 { return 1 }
  return n * fact(n - 1)
}

let i = 1
while i <= 5 {
  print fact(i)
  let i = i + 1
}
`

	prog, err := lang.Parse(context.Background(), src)
	if err != nil {
		panic(err)
	}

	if _, err := lang.Evaluate(context.Background(), prog, lang.WriterOutput(os.Stdout)); err != nil {
		panic(err)
	}
	// Output:
	// 1
	// 2
	// 6
	// 24
	// 120
}

func ExampleEvaluate_fault() {
	prog, err := lang.Parse(context.Background(), "print 1\nprint 1 + true\nprint 2")
	if err != nil {
		panic(err)
	}

	_, err = lang.Evaluate(context.Background(), prog, lang.WriterOutput(os.Stdout))

	var te *lang.TypeError
	if errors.As(err, &te) {
		fmt.Println(err)
	}
	// Output:
	// 1
	// type error at line 2, column 9: operator "+" (got number, bool)
}

func ExampleParse_error() {
	_, err := lang.Parse(context.Background(), "let = 1")
	fmt.Println(errors.Is(err, lang.ErrParse))

	var pe *lang.ParseError
	if errors.As(err, &pe) {
		fmt.Println(pe.Position())
	}
	// Output:
	// true
	// 1:5
}

func ExampleInterpreter() {
	in := lang.New(lang.WriterOutput(os.Stdout))
	in.Define("greeting", lang.StringValue("hello"))

	for _, src := range []string{`let who = "world"`, `print greeting + ", " + who`} {
		prog, err := lang.Parse(context.Background(), src)
		if err != nil {
			panic(err)
		}

		if _, err := in.Run(context.Background(), prog); err != nil {
			panic(err)
		}
	}

	fmt.Println(in.Globals().Names())
	// Output:
	// hello, world
	// [greeting who]
}
