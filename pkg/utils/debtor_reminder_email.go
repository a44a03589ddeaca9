package utils

import (
	"fmt"
	"time"
)

func SendDebtorReminderEmail(to, name, amount, groupName string) error {
	subject := fmt.Sprintf("Reminder: you owe $%s in %s", amount, groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Balance Reminder</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #d9534f;
		}
		.header {
			background-color: #d9534f;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
		}
		.message {
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.amount-box {
			background: #fff6f6;
			border: 1px solid #f1c1c1;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.amount-box h3 {
			margin: 0;
			color: #d9534f;
			font-size: 16px;
			font-weight: 700;
		}
		.amount-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
		}
		.footer {
			background: #f6f6f6;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
			border-top: 1px solid #e5e5e5;
		}
		.brand {
			color: #2f6fed;
			font-weight: bold;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>Balance Reminder</h1>
			</div>
			<div class="content">
				<p class="message">
					Hi %s,<br><br>
					Your balance in <b>%s</b> currently sits at <b>-$%s</b>.
					Settling up keeps the group's ledger clean for everyone.
				</p>

				<div class="amount-box">
					<h3>$%s owed</h3>
					<p>Group: %s</p>
				</div>

				<p class="message">
					Log in to <b>SplitRight</b> to see who to pay and record the settlement.
				</p>
			</div>
			<div class="footer">
				&copy; %d <span class="brand">SplitRight</span> — Split expenses the right way.
			</div>
		</div>
	</body>
	</html>
	`, name, groupName, amount, amount, groupName, time.Now().Year())

	return SendEmail(to, subject, body)
}
