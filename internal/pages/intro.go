package pages

import "github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"

// Introduction is the body text of the introduction page
const Introduction = "The Comparative Analysis of E-commerce Platforms project analyses product " +
	"price and discount variations across Amazon, Flipkart and Jiomart. Pricing and discount " +
	"data for a range of electronic products was collected from the three platforms over " +
	"several months to show price fluctuations, platform-specific pricing and where the " +
	"best discounts are."

// Features lists the source columns shown on the introduction page
func Features() []string {
	out := []string{domain.ColumnDate, domain.ColumnProductName}
	for _, f := range domain.Fields() {
		out = append(out, string(f))
	}
	return out
}
