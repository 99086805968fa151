package money_test

import (
	"fmt"

	"github.com/wonny/pdie/pkg/money"
)

func ExampleFormatINR() {
	fmt.Println(money.FormatINR(45000))
	fmt.Println(money.FormatINR(340000))
	fmt.Println(money.FormatINR(12500000))
	// Output:
	// ₹45,000
	// ₹3.40 L
	// ₹1.25 Cr
}
