package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Command mirrors the JSON command consumed by the matching engine.
type Command struct {
	Action   string `json:"action"`
	OrderID  string `json:"orderID,omitempty"`
	Side     string `json:"side,omitempty"`
	Type     string `json:"type,omitempty"`
	Price    string `json:"price,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// generateCommands creates a specified number of realistic place commands
func generateCommands(count int, basePrice, priceSpread decimal.Decimal, priceDecimals int32) []Command {
	commands := make([]Command, count)
	spread := priceSpread.InexactFloat64()

	for i := range count {
		// Order types: 70% limit, 30% market
		orderType := "LIMIT"
		if rand.Float64() < 0.3 {
			orderType = "MARKET"
		}

		// Order side: 50/50 buy/sell
		side := "SELL"
		if rand.Float64() < 0.5 {
			side = "BUY"
		}

		// Quantity between 0.001 and 10.000
		quantity := decimal.NewFromInt(int64(rand.IntN(10000) + 1)).Shift(-3)

		cmd := Command{
			Action:   "place",
			Side:     side,
			Type:     orderType,
			Quantity: quantity.String(),
		}

		if orderType == "LIMIT" {
			// buys rest below the base price, sells above, with some overlap
			offset := decimal.NewFromFloat(rand.Float64() * spread * 0.8)
			if side == "BUY" {
				offset = offset.Neg()
			}
			price := basePrice.Add(offset).Add(decimal.NewFromFloat((rand.Float64() - 0.5) * spread * 0.2)).Round(priceDecimals)
			if !price.IsPositive() {
				price = basePrice
			}
			cmd.Price = price.String()
		}

		commands[i] = cmd
	}

	return commands
}

func main() {
	var (
		brokers       = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic         = flag.String("topic", "orders", "Kafka topic name")
		file          = flag.String("file", "", "JSON file with commands (optional, generates place commands if not provided)")
		delay         = flag.Duration("delay", 100*time.Millisecond, "Delay between sending commands")
		count         = flag.Int("count", 1000, "Number of commands to generate")
		basePrice     = flag.String("base-price", "3945.50", "Base price for orders")
		priceSpread   = flag.String("price-spread", "200", "Price spread range")
		priceDecimals = flag.Int("price-decimals", 2, "Fractional digits of generated prices")
		reset         = flag.Bool("reset", false, "Send a reset command before the others")
	)
	flag.Parse()

	base, err := decimal.NewFromString(*basePrice)
	if err != nil {
		log.Fatalf("Invalid base price %q: %v", *basePrice, err)
	}
	spread, err := decimal.NewFromString(*priceSpread)
	if err != nil {
		log.Fatalf("Invalid price spread %q: %v", *priceSpread, err)
	}

	// Create Kafka writer
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	// Load commands
	var commands []Command
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &commands); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d commands from file: %s", len(commands), *file)
	} else {
		log.Printf("Generating %d commands...", *count)
		commands = generateCommands(*count, base, spread, int32(*priceDecimals))
	}

	if *reset {
		commands = append([]Command{{Action: "reset"}}, commands...)
	}

	log.Printf("Sending commands to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Delay between commands: %v", *delay)

	sent := 0
	counts := map[string]int{}
	for i, cmd := range commands {
		payload, err := json.Marshal(cmd)
		if err != nil {
			log.Printf("Failed to marshal command %d: %v", i+1, err)
			continue
		}

		// the key doubles as the request id on the engine side
		msg := kafka.Message{
			Key:   []byte(uuid.NewString()),
			Value: payload,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send command %d: %v", i+1, err)
			continue
		}
		sent++
		counts[cmd.Action+" "+cmd.Type+" "+cmd.Side]++

		// Log progress every 100 commands or for the last command
		if (i+1)%100 == 0 || i == len(commands)-1 {
			log.Printf("Sent command %d/%d: %s", i+1, len(commands), payload)
		}

		// Wait before sending next command (except for the last one)
		if i < len(commands)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("--- Summary ---")
	log.Printf("Sent: %d/%d", sent, len(commands))
	for kind, n := range counts {
		log.Printf("%s: %d", strings.Join(strings.Fields(kind), " "), n)
	}
}
