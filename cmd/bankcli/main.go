package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/clock"
	"github.com/Romkashka/bank/internal/domain"
	"github.com/Romkashka/bank/internal/usecase/account"
	"github.com/Romkashka/bank/internal/usecase/bank"
)

const defaultStartDate = "2024-01-01T00:00:00Z"

// session wires the engine together for one interactive run. All state the
// commands touch is addressed explicitly by index arguments; there is no
// ambient "current bank/client/account" selection.
type session struct {
	clock   *clock.Manual
	central *bank.CentralBank
	txIDs   []domain.TransactionID
}

type command struct {
	usage   string
	summary string
	run     func(s *session, args []string) error
}

// commands is the dispatch table for the interactive loop. It is populated
// in init rather than a var initializer because the command functions refer
// back to commands for their usage strings.
var commands map[string]*command

func init() {
	commands = map[string]*command{
		"bank-add":     {"bank-add <doubtful-limit>", "create a bank with a doubtful-client limit", cmdBankAdd},
		"bank-list":    {"bank-list", "list banks", cmdBankList},
		"tariff-add":   {"tariff-add <bank#> <name> <interest> <tax> <min-balance> <monthly-day>", "register a tariff", cmdTariffAdd},
		"tariff-list":  {"tariff-list <bank#>", "list tariffs of a bank", cmdTariffList},
		"client-add":   {"client-add <bank#> <name> <surname> [email]", "register a client", cmdClientAdd},
		"client-list":  {"client-list <bank#>", "list clients of a bank", cmdClientList},
		"account-open": {"account-open <bank#> <client#> <tariff#>", "open an account", cmdAccountOpen},
		"account-list": {"account-list <bank#>", "list accounts of a bank", cmdAccountList},
		"deposit":      {"deposit <bank#> <account#> <sum>", "add money to an account", cmdDeposit},
		"withdraw":     {"withdraw <bank#> <account#> <sum>", "withdraw money from an account", cmdWithdraw},
		"transfer":     {"transfer <from-bank#> <from-account#> <to-bank#> <to-account#> <sum>", "transfer between accounts", cmdTransfer},
		"cancel":       {"cancel <tx#>", "cancel a recorded transaction", cmdCancel},
		"tx-list":      {"tx-list", "list recorded transactions", cmdTxList},
		"skip":         {"skip <days>", "advance simulated time by whole days", cmdSkip},
		"predict":      {"predict <bank#> <account#> <days>", "predict a balance after the given days", cmdPredict},
		"messages":     {"messages <bank#> <client#>", "show a client's tariff notifications", cmdMessages},
		"now":          {"now", "show the simulated date and time", cmdNow},
	}
}

func main() {
	// Missing .env is fine; defaults cover everything.
	_ = godotenv.Load()

	start := os.Getenv("BANK_START_DATE")
	if start == "" {
		start = defaultStartDate
	}
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		log.Fatalf("invalid BANK_START_DATE %q: %v", start, err)
	}

	s := &session{
		clock: clock.NewManual(startTime),
	}
	s.central = bank.NewCentralBank(s.clock)

	fmt.Printf("bankcli — simulated multi-bank ledger (time starts at %s)\n", startTime.Format(time.RFC3339))
	fmt.Println(`type "help" for commands, "quit" to exit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]

		switch name {
		case "quit", "exit":
			return
		case "help":
			printHelp()
			continue
		}

		cmd, ok := commands[name]
		if !ok {
			fmt.Printf("unknown command %q; type \"help\"\n", name)
			continue
		}
		if err := cmd.run(s, args); err != nil {
			fmt.Println("error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading input: %v", err)
	}
}

func printHelp() {
	names := []string{
		"bank-add", "bank-list", "tariff-add", "tariff-list", "client-add", "client-list",
		"account-open", "account-list", "deposit", "withdraw", "transfer", "cancel",
		"tx-list", "skip", "predict", "messages", "now",
	}
	for _, n := range names {
		fmt.Printf("  %-70s %s\n", commands[n].usage, commands[n].summary)
	}
	fmt.Println("  help")
	fmt.Println("  quit")
}

func cmdBankAdd(s *session, args []string) error {
	limit, err := argDecimal(args, 0, "doubtful-limit")
	if err != nil {
		return err
	}
	b, err := s.central.CreateBank(limit)
	if err != nil {
		return err
	}
	fmt.Printf("created bank #%d (%s), doubtful-client limit %s\n", len(s.central.Banks())-1, b.ID(), limit)
	return nil
}

func cmdBankList(s *session, _ []string) error {
	for i, b := range s.central.Banks() {
		fmt.Printf("#%d  %s  doubtful limit %s  accounts %d\n", i, b.ID(), b.DoubtfulLimit(), len(b.Accounts()))
	}
	return nil
}

func cmdTariffAdd(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 6 {
		return fmt.Errorf("usage: %s", commands["tariff-add"].usage)
	}
	interest, err := argDecimal(args, 2, "interest")
	if err != nil {
		return err
	}
	tax, err := argDecimal(args, 3, "tax")
	if err != nil {
		return err
	}
	minBalance, err := argDecimal(args, 4, "min-balance")
	if err != nil {
		return err
	}
	day, err := argInt(args, 5, "monthly-day")
	if err != nil {
		return err
	}
	snapshot := domain.TariffSnapshot{
		ID:                 domain.NewTariffID(),
		Name:               args[1],
		BalanceInterest:    interest,
		NegativeBalanceTax: tax,
		MinimumBalance:     minBalance,
		MonthlyUpdateDay:   day,
	}
	if _, err := b.AddTariff(snapshot); err != nil {
		return err
	}
	fmt.Printf("added tariff #%d %q\n", len(b.Tariffs())-1, snapshot.Name)
	return nil
}

func cmdTariffList(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	for i, snap := range b.Tariffs() {
		fmt.Printf("#%d  %-12s interest %s  tax %s  min balance %s  monthly day %d\n",
			i, snap.Name, snap.BalanceInterest, snap.NegativeBalanceTax, snap.MinimumBalance, snap.MonthlyUpdateDay)
	}
	return nil
}

func cmdClientAdd(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("usage: %s", commands["client-add"].usage)
	}
	info := domain.ClientInfo{Name: args[1], Surname: args[2]}
	if len(args) > 3 {
		email, err := domain.NewEmail(args[3])
		if err != nil {
			return err
		}
		info.Email = email
	}
	id, err := b.AddClient(info)
	if err != nil {
		return err
	}
	fmt.Printf("added client #%d (%s)\n", len(b.Clients())-1, id)
	return nil
}

func cmdClientList(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	for i, c := range b.Clients() {
		status := "verified"
		if c.Info.Doubtful() {
			status = "doubtful"
		}
		fmt.Printf("#%d  %s %s  (%s)  accounts %d\n", i, c.Info.Name, c.Info.Surname, status, len(c.Accounts))
	}
	return nil
}

func cmdAccountOpen(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	clientIdx, err := argInt(args, 1, "client#")
	if err != nil {
		return err
	}
	tariffIdx, err := argInt(args, 2, "tariff#")
	if err != nil {
		return err
	}
	clients := b.Clients()
	if clientIdx < 0 || clientIdx >= len(clients) {
		return fmt.Errorf("no client #%d", clientIdx)
	}
	tariffs := b.Tariffs()
	if tariffIdx < 0 || tariffIdx >= len(tariffs) {
		return fmt.Errorf("no tariff #%d", tariffIdx)
	}
	acc, err := b.OpenAccount(clients[clientIdx].ID, tariffs[tariffIdx].ID)
	if err != nil {
		return err
	}
	fmt.Printf("opened account #%d (%s)\n", len(b.Accounts())-1, acc.ID())
	return nil
}

func cmdAccountList(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	for i, acc := range b.Accounts() {
		fmt.Printf("#%d  %s  balance %s  accrued %s  opened %s\n",
			i, acc.ID(), acc.Balance(), acc.Accumulator(), acc.CreatedAt().Format("2006-01-02"))
	}
	return nil
}

func cmdDeposit(s *session, args []string) error {
	acc, err := s.accountAt(args, 0, 1)
	if err != nil {
		return err
	}
	sum, err := argDecimal(args, 2, "sum")
	if err != nil {
		return err
	}
	txID, err := s.central.Deposit(acc.ID(), sum)
	if err != nil {
		return err
	}
	s.txIDs = append(s.txIDs, txID)
	fmt.Printf("tx #%d recorded; balance %s\n", len(s.txIDs)-1, acc.Balance())
	return nil
}

func cmdWithdraw(s *session, args []string) error {
	acc, err := s.accountAt(args, 0, 1)
	if err != nil {
		return err
	}
	sum, err := argDecimal(args, 2, "sum")
	if err != nil {
		return err
	}
	txID, err := s.central.Withdraw(acc.ID(), sum)
	if err != nil {
		return err
	}
	s.txIDs = append(s.txIDs, txID)
	fmt.Printf("tx #%d recorded; balance %s\n", len(s.txIDs)-1, acc.Balance())
	return nil
}

func cmdTransfer(s *session, args []string) error {
	from, err := s.accountAt(args, 0, 1)
	if err != nil {
		return err
	}
	to, err := s.accountAt(args, 2, 3)
	if err != nil {
		return err
	}
	sum, err := argDecimal(args, 4, "sum")
	if err != nil {
		return err
	}
	txID, err := s.central.Transfer(from.ID(), to.ID(), sum)
	if err != nil {
		return err
	}
	s.txIDs = append(s.txIDs, txID)
	fmt.Printf("tx #%d recorded; source balance %s, destination balance %s\n", len(s.txIDs)-1, from.Balance(), to.Balance())
	return nil
}

func cmdCancel(s *session, args []string) error {
	idx, err := argInt(args, 0, "tx#")
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.txIDs) {
		return fmt.Errorf("no transaction #%d", idx)
	}
	if err := s.central.CancelTransaction(s.txIDs[idx]); err != nil {
		return err
	}
	fmt.Printf("transaction #%d cancelled\n", idx)
	return nil
}

func cmdTxList(s *session, _ []string) error {
	for i, tx := range s.central.Transactions() {
		fmt.Printf("#%d  %s\n", i, tx.ID)
		for _, leg := range tx.Legs {
			fmt.Printf("      %s  %s\n", leg.Account.ID(), leg.Amount)
		}
	}
	return nil
}

func cmdSkip(s *session, args []string) error {
	days, err := argInt(args, 0, "days")
	if err != nil {
		return err
	}
	if err := s.clock.Forward(time.Duration(days) * 24 * time.Hour); err != nil {
		return err
	}
	fmt.Printf("time is now %s\n", s.clock.Now().Format(time.RFC3339))
	return nil
}

func cmdPredict(s *session, args []string) error {
	acc, err := s.accountAt(args, 0, 1)
	if err != nil {
		return err
	}
	days, err := argInt(args, 2, "days")
	if err != nil {
		return err
	}
	predicted, err := acc.Predict(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return err
	}
	fmt.Printf("balance after %d day(s): %s\n", days, predicted)
	return nil
}

func cmdMessages(s *session, args []string) error {
	b, err := s.bankAt(args, 0)
	if err != nil {
		return err
	}
	idx, err := argInt(args, 1, "client#")
	if err != nil {
		return err
	}
	clients := b.Clients()
	if idx < 0 || idx >= len(clients) {
		return fmt.Errorf("no client #%d", idx)
	}
	email := clients[idx].Info.Email
	if email == nil {
		fmt.Println("client has no email on record")
		return nil
	}
	for _, m := range email.Messages() {
		fmt.Printf("[%s] %s\n", m.SentAt.Format(time.RFC3339), m.Text)
	}
	return nil
}

func cmdNow(s *session, _ []string) error {
	fmt.Println(s.clock.Now().Format(time.RFC3339))
	return nil
}

func (s *session) bankAt(args []string, idx int) (*bank.Bank, error) {
	n, err := argInt(args, idx, "bank#")
	if err != nil {
		return nil, err
	}
	banks := s.central.Banks()
	if n < 0 || n >= len(banks) {
		return nil, fmt.Errorf("no bank #%d", n)
	}
	return banks[n], nil
}

func (s *session) accountAt(args []string, bankIdx, accIdx int) (*account.Account, error) {
	b, err := s.bankAt(args, bankIdx)
	if err != nil {
		return nil, err
	}
	n, err := argInt(args, accIdx, "account#")
	if err != nil {
		return nil, err
	}
	accounts := b.Accounts()
	if n < 0 || n >= len(accounts) {
		return nil, fmt.Errorf("no account #%d in bank", n)
	}
	return accounts[n], nil
}

func argInt(args []string, idx int, name string) (int, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("missing argument <%s>", name)
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		return 0, fmt.Errorf("argument <%s>: %v", name, err)
	}
	return n, nil
}

func argDecimal(args []string, idx int, name string) (decimal.Decimal, error) {
	if idx >= len(args) {
		return decimal.Decimal{}, fmt.Errorf("missing argument <%s>", name)
	}
	d, err := decimal.NewFromString(args[idx])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("argument <%s>: %v", name, err)
	}
	return d, nil
}
