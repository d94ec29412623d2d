package game

import "fmt"

// Buy converts amount of cash into amount/price shares of the stock. The
// debit and the share credit happen together or not at all.
func (p *Player) Buy(ticker string, amount, price float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if price <= 0 {
		return fmt.Errorf("%w: price %.4f", ErrInvalidAmount, price)
	}
	if amount > p.Cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, amount, p.Cash)
	}
	p.Cash -= amount
	p.Portfolio[ticker] += amount / price
	return nil
}

// Sell converts shares of the stock back into cash at the given price.
// Positions sold down to zero are removed from the portfolio.
func (p *Player) Sell(ticker string, shares, price float64) error {
	if shares <= 0 {
		return ErrInvalidAmount
	}
	if price <= 0 {
		return fmt.Errorf("%w: price %.4f", ErrInvalidAmount, price)
	}
	held := p.Portfolio[ticker]
	if shares > held {
		return fmt.Errorf("%w: selling %.4f, holding %.4f of %s", ErrInsufficientShares, shares, held, ticker)
	}
	p.Cash += shares * price
	remaining := held - shares
	if remaining == 0 {
		delete(p.Portfolio, ticker)
	} else {
		p.Portfolio[ticker] = remaining
	}
	return nil
}
